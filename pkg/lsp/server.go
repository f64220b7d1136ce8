// Package lsp provides a Language Server Protocol server that publishes
// pystyle findings as diagnostics for open Python documents.
package lsp

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	// Registers the commonlog backend used by the glsp transport.
	_ "github.com/tliron/commonlog/simple"

	"github.com/Sumatoshi-tech/pystyle/pkg/cache"
	"github.com/Sumatoshi-tech/pystyle/pkg/observability"
	"github.com/Sumatoshi-tech/pystyle/pkg/source"
	"github.com/Sumatoshi-tech/pystyle/pkg/stylecheck"
)

const (
	serverName = "pystyle"

	methodPublishDiagnostics = "textDocument/publishDiagnostics"
	opPublish                = "lsp.publish_diagnostics"
)

// ServerDeps holds injectable dependencies for the LSP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Analyzer runs the checks. Nil uses stylecheck defaults.
	Analyzer *stylecheck.Analyzer

	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder.
	Metrics *observability.REDMetrics

	// Tracer is an optional tracer for per-publish spans.
	Tracer trace.Tracer

	// Version is reported in the initialize response.
	Version string

	// Verbosity configures the commonlog backend of the transport.
	Verbosity int

	// CacheSize bounds the summed size of the documents whose results are
	// cached. Zero uses cache.DefaultMaxSize.
	CacheSize int64
}

// resultKey identifies an analysis by document path and content.
type resultKey struct {
	path string
	sum  [sha256.Size]byte
}

// Server implements the pystyle LSP server.
type Server struct {
	store    *DocumentStore
	handler  protocol.Handler
	analyzer *stylecheck.Analyzer
	results  *cache.LRU[resultKey, *stylecheck.Result]
	logger   *slog.Logger
	metrics  *observability.REDMetrics
	tracer   trace.Tracer
	version  string
	verbose  int
}

// NewServer creates a new LSP server with default handlers.
func NewServer(deps ServerDeps) *Server {
	srv := &Server{
		store:    NewDocumentStore(),
		analyzer: deps.Analyzer,
		results:  cache.NewLRU[resultKey, *stylecheck.Result](deps.CacheSize),
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		tracer:   deps.Tracer,
		version:  deps.Version,
		verbose:  deps.Verbosity,
	}

	if srv.analyzer == nil {
		srv.analyzer = stylecheck.New(stylecheck.DefaultOptions(), deps.Tracer, nil)
	}

	if srv.logger == nil {
		srv.logger = slog.Default()
	}

	srv.handler = protocol.Handler{
		Initialize:            srv.initialize,
		Initialized:           srv.initialized,
		Shutdown:              srv.shutdown,
		SetTrace:              srv.setTrace,
		TextDocumentDidOpen:   srv.didOpen,
		TextDocumentDidChange: srv.didChange,
		TextDocumentDidSave:   srv.didSave,
		TextDocumentDidClose:  srv.didClose,
	}

	return srv
}

// Store exposes the open documents.
func (srv *Server) Store() *DocumentStore {
	return srv.store
}

// CacheStats reports the usage of the analysis result cache.
func (srv *Server) CacheStats() cache.Stats {
	return srv.results.Stats()
}

// Handler returns the protocol handler, for embedding in another transport.
func (srv *Server) Handler() *protocol.Handler {
	return &srv.handler
}

// Run starts the LSP server on stdio and blocks until the client exits.
func (srv *Server) Run() error {
	commonlog.Configure(srv.verbose, nil)

	lspServer := server.NewServer(&srv.handler, serverName, false)

	err := lspServer.RunStdio()
	if err != nil {
		return fmt.Errorf("lsp server: %w", err)
	}

	return nil
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: &protocol.False},
	}

	version := srv.version

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	srv.store.Set(uri, params.TextDocument.Text)
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	if len(params.ContentChanges) == 0 {
		return nil
	}

	// Full sync: the last change carries the whole document.
	switch change := params.ContentChanges[len(params.ContentChanges)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		srv.store.Set(uri, change.Text)
	case map[string]any:
		text, ok := change["text"].(string)
		if !ok {
			return nil
		}

		srv.store.Set(uri, text)
	default:
		return nil
	}

	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if params.Text != nil {
		srv.store.Set(uri, *params.Text)
	}

	if _, ok := srv.store.Get(uri); ok {
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.store.Delete(uri)

	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	text, ok := srv.store.Get(uri)
	if !ok {
		return
	}

	diags, err := srv.Check(context.Background(), uri, text)
	if err != nil {
		srv.logger.Warn("lsp: analysis skipped", "uri", uri, "error", err)
	}

	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// Check analyzes text as the document at uri. Documents that are not Python
// files yield no diagnostics and an error explaining why.
func (srv *Server) Check(ctx context.Context, uri, text string) ([]protocol.Diagnostic, error) {
	start := time.Now()

	if srv.tracer != nil {
		var span trace.Span

		ctx, span = srv.tracer.Start(ctx, opPublish, trace.WithAttributes(attribute.String("lsp.uri", uri)))
		defer span.End()
	}

	done := srv.metrics.TrackInflight(ctx, opPublish)
	defer done()

	diags, err := srv.check(ctx, uri, text)

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError
	}

	srv.metrics.RecordRequest(ctx, opPublish, status, time.Since(start))

	return diags, err
}

func (srv *Server) check(ctx context.Context, uri, text string) ([]protocol.Diagnostic, error) {
	file, err := source.New(uriPath(uri), []byte(text))
	if err != nil {
		if errors.Is(err, source.ErrNotPython) {
			return []protocol.Diagnostic{}, err
		}

		return []protocol.Diagnostic{}, fmt.Errorf("load document: %w", err)
	}

	key := resultKey{path: file.Name(), sum: sha256.Sum256([]byte(text))}

	res, ok := srv.results.Get(key)
	if !ok {
		res, err = srv.analyzer.Analyze(ctx, file)
		if err != nil {
			return []protocol.Diagnostic{}, err
		}

		srv.results.Put(key, res, int64(len(text)))
	}

	return Diagnostics(file, res), nil
}

func uriPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Path == "" {
		return uri
	}

	return parsed.Path
}
