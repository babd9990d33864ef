package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/saitejab/docuquery/internal/adapter"
	"github.com/saitejab/docuquery/internal/adapter/utils"
	"github.com/saitejab/docuquery/internal/api"
	"github.com/saitejab/docuquery/internal/config"
	"github.com/saitejab/docuquery/internal/domain/docmodel"
	"github.com/saitejab/docuquery/internal/rag/extract"
	"github.com/saitejab/docuquery/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id           string
	traceId      string
	documentName string
	storagePath  string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// QueryHandler godoc
// @Summary      Ask a question over the indexed documents
// @Description  Runs retrieval and grounded generation synchronously and returns the answer with its sources.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest   true  "Question with optional top_k and threshold"
// @Success      200      {object}  api.QueryResponse  "Answer and source chunks"
// @Failure      400      {object}  api.JobResponse    "Invalid request data"
// @Router       /query [post]
func QueryHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.QueryRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Query handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Question == "" {
			logRH.Warn("Bad Query Request: ", "error:", err)
			WriteErrorResponse(w, http.StatusBadRequest, "", "question is required")
			return
		}

		topK := requestData.TopK
		if topK <= 0 {
			topK = config.DefaultTopK
		}
		threshold := requestData.Threshold
		if threshold <= 0 {
			threshold = config.DefaultThreshold
		}

		result := handlerInstance.engine.Ask(request.Context(), requestData.Question, topK, threshold)
		writeJsonResponse(w, http.StatusOK, adapter.ToQueryResponse(requestData.Question, result))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get ingestion job status
// @Description  Retrieves the current status of a specific ingestion job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "The current status of the job"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostUploadHandler godoc
// @Summary      Upload documents for indexing
// @Description  Receives one or more files via multipart/form-data, stores each supported file and queues an ingestion job per file. Unsupported types are rejected individually.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        documents  formData  file  true  "PDF, DOCX, CSV or TXT files"
// @Success      202  {object}  api.UploadResponse  "Per-file accept and reject results"
// @Failure      400  {object}  api.JobResponse     "No files or request too large"
// @Failure      500  {object}  api.JobResponse     "Storage error"
// @Router       /upload [post]
func PostUploadHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()
		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		files := r.MultipartForm.File["documents"]
		if len(files) == 0 {
			WriteErrorResponse(w, http.StatusBadRequest, "", "at least one file is required under 'documents'")
			return
		}

		traceId := r.Context().Value(config.TRACE_ID_KEY).(string)
		response := api.UploadResponse{Accepted: []api.UploadFileResult{}}

		for _, fileHeader := range files {
			if extract.DocTypeFor(fileHeader.Filename) == docmodel.ERR {
				logRH.Warn("Rejected unsupported upload", "file", fileHeader.Filename)
				response.Rejected = append(response.Rejected, api.UploadFileResult{
					FileName: fileHeader.Filename,
					Error:    "unsupported file type",
				})
				continue
			}

			storedPath, err := saveUploadedFile(fileHeader, targetDir)
			if err != nil {
				logRH.Error("Failed storing upload", "file", fileHeader.Filename, "error", err)
				response.Rejected = append(response.Rejected, api.UploadFileResult{
					FileName: fileHeader.Filename,
					Error:    "storage error",
				})
				continue
			}

			newJob := newJobData{
				id:           utils.GetNewUUID(),
				traceId:      traceId,
				documentName: fileHeader.Filename,
				storagePath:  storedPath,
			}
			CreateIngestJob(newJob)
			response.Accepted = append(response.Accepted, api.UploadFileResult{
				FileName: fileHeader.Filename,
				JobId:    newJob.id,
			})
		}

		writeJsonResponse(w, http.StatusAccepted, response)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetDocumentsHandler godoc
// @Summary      List indexed documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentsResponse
// @Router       /documents [get]
func GetDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		docs := handlerInstance.registry.List()
		writeJsonResponse(w, http.StatusOK, adapter.ToDocumentsResponse(docs))
	}
}

// DeleteDocumentHandler godoc
// @Summary      Delete an indexed document
// @Description  Removes the registry entry, the indexed chunks and the stored file for a document.
// @Tags         Documents
// @Produce      json
// @Param        name  path  string  true  "Document file name"
// @Success      204   "Deleted"
// @Failure      404   {object}  api.JobResponse  "Document not found"
// @Failure      500   {object}  api.JobResponse  "A deletion step failed"
// @Router       /documents/{name} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		name := utils.GetChiURLParam(r, "name")
		if name == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "document name is required")
			return
		}

		err := handlerInstance.engine.DeleteDocument(r.Context(), name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				WriteErrorResponse(w, http.StatusNotFound, name, "Document not found")
				return
			}
			logRH.Error("Delete failed", "document", name, "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, name, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func saveUploadedFile(fileHeader *multipart.FileHeader, targetDir string) (string, error) {
	fileReader, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fileHeader.Filename))
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		return "", err
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		return "", err
	}
	return tempFilePath, nil
}
