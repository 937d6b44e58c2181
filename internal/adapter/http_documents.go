package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/config"
	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/MKhiriev/pilvi-pass/internal/utils"
	"github.com/MKhiriev/pilvi-pass/models"
	"github.com/go-resty/resty/v2"
)

const (
	collectionPath = "/projects/{project}/databases/(default)/documents/users/{email}/credentials"
	documentPath   = collectionPath + "/{service}"

	listPageSize = "300"
)

// document field names; they match the record layout written by every
// client of the collection.
const (
	fieldServiceName = "serviceName"
	fieldUsername    = "username"
	fieldPassword    = "password"
	fieldCreatedAt   = "createdAt"
)

type documentValue struct {
	StringValue    *string `json:"stringValue,omitempty"`
	TimestampValue *string `json:"timestampValue,omitempty"`
}

type document struct {
	Name       string                   `json:"name,omitempty"`
	Fields     map[string]documentValue `json:"fields"`
	CreateTime string                   `json:"createTime,omitempty"`
}

type listDocumentsResponse struct {
	Documents     []document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

type httpDocumentStore struct {
	client    *utils.HTTPClient
	projectID string

	logger *logger.Logger
}

// NewHTTPDocumentStore constructs the REST implementation of [DocumentStore]
// for a Firestore compatible document database.
//
// Returns an error if the documents address cannot be parsed or the project
// id is empty.
func NewHTTPDocumentStore(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (DocumentStore, error) {
	if appCfg.ProjectID == "" {
		return nil, errors.New("empty project id")
	}

	client, err := newClient(adapterCfg.DocumentsAddress, adapterCfg.RequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid documents address: %w", err)
	}

	return &httpDocumentStore{client: client, projectID: appCfg.ProjectID, logger: logger}, nil
}

// SetCredential implements [DocumentStore]. It PATCHes the whole document
// without an update mask, which creates it or replaces every field.
func (h *httpDocumentStore) SetCredential(ctx context.Context, user models.User, credential models.Credential) error {
	resp, err := h.authedRequest(ctx, user).
		SetPathParam("service", credential.ServiceName).
		SetHeader("Content-Type", "application/json").
		SetBody(toDocument(credential)).
		Patch(documentPath)
	if err != nil {
		return mapTransportError("set credential", err)
	}

	return mapHTTPError(resp)
}

// ListCredentials implements [DocumentStore]. It GETs the collection page by
// page until no nextPageToken is returned.
func (h *httpDocumentStore) ListCredentials(ctx context.Context, user models.User) ([]models.Credential, error) {
	var (
		credentials []models.Credential
		pageToken   string
	)

	for {
		var page listDocumentsResponse

		req := h.authedRequest(ctx, user).
			SetQueryParam("pageSize", listPageSize).
			SetResult(&page)
		if pageToken != "" {
			req.SetQueryParam("pageToken", pageToken)
		}

		resp, err := req.Get(collectionPath)
		if err != nil {
			return nil, mapRequestError("list credentials", err)
		}
		if err = mapHTTPError(resp); err != nil {
			return nil, err
		}

		for _, doc := range page.Documents {
			credential, err := fromDocument(doc, user.Email)
			if err != nil {
				h.logger.Warn().Str("func", "httpDocumentStore.ListCredentials").
					Str("document", doc.Name).Err(err).Msg("skipping malformed credential document")
				continue
			}
			credentials = append(credentials, credential)
		}

		if page.NextPageToken == "" {
			return credentials, nil
		}
		pageToken = page.NextPageToken
	}
}

// GetCredential implements [DocumentStore].
func (h *httpDocumentStore) GetCredential(ctx context.Context, user models.User, serviceName string) (models.Credential, error) {
	var doc document

	resp, err := h.authedRequest(ctx, user).
		SetPathParam("service", serviceName).
		SetResult(&doc).
		Get(documentPath)
	if err != nil {
		return models.Credential{}, mapRequestError("get credential", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Credential{}, err
	}

	return fromDocument(doc, user.Email)
}

// DeleteCredential implements [DocumentStore].
func (h *httpDocumentStore) DeleteCredential(ctx context.Context, user models.User, serviceName string) error {
	resp, err := h.authedRequest(ctx, user).
		SetPathParam("service", serviceName).
		Delete(documentPath)
	if err != nil {
		return mapTransportError("delete credential", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}

	return mapHTTPError(resp)
}

func (h *httpDocumentStore) authedRequest(ctx context.Context, user models.User) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"project": h.projectID,
			"email":   user.Email,
		})
	if token := strings.TrimSpace(user.IDToken); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func stringValue(s string) documentValue {
	return documentValue{StringValue: &s}
}

func toDocument(c models.Credential) document {
	createdAt := c.CreatedAt.UTC().Format(time.RFC3339Nano)

	return document{
		Fields: map[string]documentValue{
			fieldServiceName: stringValue(c.ServiceName),
			fieldUsername:    stringValue(c.Username),
			fieldPassword:    stringValue(c.Password.String()),
			fieldCreatedAt:   {TimestampValue: &createdAt},
		},
	}
}

func fromDocument(doc document, owner string) (models.Credential, error) {
	credential := models.Credential{Owner: owner}

	if v, ok := doc.Fields[fieldServiceName]; ok && v.StringValue != nil {
		credential.ServiceName = *v.StringValue
	}
	if credential.ServiceName == "" {
		// documents written without the field are addressed by their ID
		if i := strings.LastIndex(doc.Name, "/"); i >= 0 {
			credential.ServiceName = doc.Name[i+1:]
		}
	}
	if credential.ServiceName == "" {
		return models.Credential{}, errors.New("document has no service name")
	}

	if v, ok := doc.Fields[fieldUsername]; ok && v.StringValue != nil {
		credential.Username = *v.StringValue
	}

	v, ok := doc.Fields[fieldPassword]
	if !ok || v.StringValue == nil {
		return models.Credential{}, errors.New("document has no password")
	}
	credential.Password = models.EncryptedRecord(*v.StringValue)

	createdAt := doc.CreateTime
	if v, ok := doc.Fields[fieldCreatedAt]; ok && v.TimestampValue != nil {
		createdAt = *v.TimestampValue
	}
	if createdAt != "" {
		t, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return models.Credential{}, fmt.Errorf("invalid createdAt %q: %w", createdAt, err)
		}
		credential.CreatedAt = t
	}

	return credential, nil
}
