package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// SupervisorAPI covers the reviewer capability.
type SupervisorAPI struct {
	client *Client
}

// ProgramUpload carries a training program artifact and its metadata.
type ProgramUpload struct {
	FileName     string
	File         io.Reader
	Message      string
	TrainingDate string
	Location     string
	Duration     string
}

// Projects lists every project for review.
func (s *SupervisorAPI) Projects(ctx context.Context) ([]Project, error) {
	if err := s.client.requireAuth(); err != nil {
		return nil, err
	}

	var projects []Project
	if err := s.client.do(ctx, http.MethodGet, "/supervisor/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// SendProgram delivers a training program artifact to a project owner.
func (s *SupervisorAPI) SendProgram(ctx context.Context, projectID uint, upload ProgramUpload) (Program, error) {
	if err := s.client.requireAuth(); err != nil {
		return Program{}, err
	}
	if upload.File == nil {
		return Program{}, &Error{Kind: KindValidationFailed, Message: "program file is required"}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", upload.FileName)
	if err != nil {
		return Program{}, &Error{Kind: KindTransportFailure, Message: "failed to build upload body"}
	}
	if _, err := io.Copy(part, upload.File); err != nil {
		return Program{}, &Error{Kind: KindTransportFailure, Message: "failed to read upload file"}
	}

	fields := map[string]string{
		"message":       upload.Message,
		"training_date": upload.TrainingDate,
		"location":      upload.Location,
		"duration":      upload.Duration,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return Program{}, &Error{Kind: KindTransportFailure, Message: "failed to build upload body"}
		}
	}
	if err := writer.Close(); err != nil {
		return Program{}, &Error{Kind: KindTransportFailure, Message: "failed to build upload body"}
	}

	var program Program
	path := fmt.Sprintf("/supervisor/projects/%d/program", projectID)
	if err := s.client.send(ctx, http.MethodPost, path, &body, writer.FormDataContentType(), &program); err != nil {
		return Program{}, err
	}
	return program, nil
}
