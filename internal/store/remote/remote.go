// Package remote implements store.Repository on a hosted document store (Firestore REST).
//
// Each collection kind is one document under the signed-in principal:
//
//	projects/{project}/databases/(default)/documents/users/{principal}/collections/{kind}
//
// The snapshot is kept in a bytes field so the document layout never depends on the
// shape of the collection.
package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lista-cli/internal/store"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	firestore "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// DefaultTimeout bounds each remote call.
	DefaultTimeout = 10 * time.Second

	fieldPayload   = "payload"
	fieldUpdatedAt = "updatedAt"
)

var (
	ErrNoPrincipal = errors.New("remote storage requires a signed-in user (set remote.principal)")
	ErrNoProject   = errors.New("remote storage requires a project (set remote.project)")
	ErrAuth        = errors.New("token expired or revoked (refresh token.json)")
	ErrTimeout     = errors.New("request timed out")
	ErrNotFound    = errors.New("document not found")
)

type Options struct {
	Project   string
	Principal string
	Timeout   time.Duration
	// Endpoint overrides the service base URL.
	Endpoint string

	// CredentialsFile and TokenFile hold the OAuth client and the user's token. Both are
	// required by New.
	CredentialsFile string
	TokenFile       string

	Logger *zap.Logger
}

// Backend is a store.Repository backed by remote documents.
type Backend struct {
	docs      *firestore.ProjectsDatabasesDocumentsService
	project   string
	principal string
	timeout   time.Duration
	log       *zap.Logger
}

var _ store.Repository = (*Backend)(nil)

// New builds a backend authenticated with the stored OAuth client and token.
func New(ctx context.Context, opts Options) (*Backend, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	clientJSON, err := os.ReadFile(opts.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(opts.CredentialsFile), err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, firestore.DatastoreScope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(opts.CredentialsFile), err)
	}
	tokenData, err := os.ReadFile(opts.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(opts.TokenFile), err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(opts.TokenFile), err)
	}
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))
	return NewWithHTTPClient(ctx, httpClient, opts)
}

// NewWithHTTPClient builds a backend on a caller-provided client. Tests point it at an
// httptest server through Options.Endpoint.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts Options) (*Backend, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	clientOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if ep := strings.TrimSpace(opts.Endpoint); ep != "" {
		if !strings.HasSuffix(ep, "/") {
			ep += "/"
		}
		clientOpts = append(clientOpts, option.WithEndpoint(ep))
	}
	svc, err := firestore.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create document service: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{
		docs:      svc.Projects.Databases.Documents,
		project:   strings.TrimSpace(opts.Project),
		principal: strings.TrimSpace(opts.Principal),
		timeout:   timeout,
		log:       log.Named("remote"),
	}, nil
}

func validate(opts Options) error {
	if strings.TrimSpace(opts.Project) == "" {
		return ErrNoProject
	}
	if strings.TrimSpace(opts.Principal) == "" {
		return ErrNoPrincipal
	}
	return nil
}

func (b *Backend) docName(kind store.Kind) string {
	return fmt.Sprintf("projects/%s/databases/(default)/documents/users/%s/collections/%s", b.project, b.principal, kind)
}

func (b *Backend) LoadCollection(ctx context.Context, kind store.Kind) (store.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	doc, err := b.docs.Get(b.docName(kind)).Context(ctx).Do()
	if isNotFound(err) {
		b.log.Debug("collection missing, using default", zap.String("kind", string(kind)))
		return store.DefaultCollection(kind), nil
	}
	if err != nil {
		return store.Collection{}, wrapError(err)
	}
	return decodeDocument(kind, doc)
}

func (b *Backend) SaveCollection(ctx context.Context, kind store.Kind, c store.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	at := c.UpdatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	data := c.Data
	if len(data) == 0 {
		data = store.DefaultCollection(kind).Data
	}
	doc := &firestore.Document{
		Fields: map[string]firestore.Value{
			fieldPayload:   {BytesValue: base64.StdEncoding.EncodeToString(data)},
			fieldUpdatedAt: {TimestampValue: at.UTC().Format(time.RFC3339Nano)},
		},
	}
	// Patch without a field mask replaces the document, creating it when missing.
	if _, err := b.docs.Patch(b.docName(kind), doc).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	b.log.Debug("collection saved", zap.String("kind", string(kind)), zap.Int("bytes", len(data)))
	return nil
}

func decodeDocument(kind store.Kind, doc *firestore.Document) (store.Collection, error) {
	c := store.Collection{Kind: kind}
	payload, ok := doc.Fields[fieldPayload]
	if !ok || payload.BytesValue == "" {
		return store.DefaultCollection(kind), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload.BytesValue)
	if err != nil {
		return store.Collection{}, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	c.Data = data
	if ts, ok := doc.Fields[fieldUpdatedAt]; ok && ts.TimestampValue != "" {
		if at, err := time.Parse(time.RFC3339Nano, ts.TimestampValue); err == nil {
			c.UpdatedAt = at.UTC()
		}
	}
	return c, nil
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
	}
	return err
}
