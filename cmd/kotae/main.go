// Package main is the Kotae CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/cli"
	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/ingest"
	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/retrieval"
	"github.com/hyperjump/kotae/internal/server"
	"github.com/hyperjump/kotae/internal/session"
	"github.com/hyperjump/kotae/internal/store"
	"github.com/hyperjump/kotae/internal/synthesis"
	"github.com/hyperjump/kotae/internal/watcher"
	"github.com/hyperjump/kotae/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotae/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "kotae server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// .env is optional; the variables may come from the environment directly.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "ingest":
		runIngest()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kotae version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (ingestion progress, watcher events, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watchSvc *watcher.Watcher
	if len(cfg.Knowledge.Directories) > 0 {
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc = watcher.NewWatcher(cfg.Knowledge.Directories, cfg.Knowledge.Extensions, components.Pipeline, watchOpts...)
		logger.Info("knowledge base configured",
			zap.Strings("directories", watchSvc.Directories()),
			zap.Bool("watch", cfg.Knowledge.Watch),
		)
		if cfg.Knowledge.Watch {
			if err := watchSvc.Start(watchCtx); err != nil {
				logger.Fatal("Failed to start watcher", zap.Error(err))
			}
		}
		go watchSvc.SyncExisting()
	}

	srv := server.NewServer(
		components.Synthesizer,
		components.Pipeline,
		components.Store,
		components.Sessions,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchSvc != nil {
		watchSvc.Stop()
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printAskUsage prints ask subcommand usage.
func printAskUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: kotae ask [flags] <question>\n\n")
	fmt.Fprintf(fs.Output(), "Question is all remaining arguments joined by spaces. Multi-word questions work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Answers are grounded in the ingested documents and cite source pages.
  • Pass --session to continue an earlier conversation; the answer prints the session id to reuse.
  • Use --server "" to answer directly against local storage when the server is not running.

Examples:
  kotae ask how do I reset the device
  kotae ask "how do I reset the device"          # same as above
  kotae ask --session 2f9d… and after that?
  kotae ask --output json "warranty period"
`)
}

// buildQuestion joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// askArgsReorder moves any flags (and their values) that appear after the
// question to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "kotae ask \"question\"
// -session abc" would otherwise leave -session unparsed.
func askArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runAsk() {
	askArgs := askArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer directly against local storage)")
	sessionID := fs.String("session", "", "session id to continue an earlier conversation")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printAskUsage(fs) }
	_ = fs.Parse(askArgs)

	if fs.NArg() < 1 {
		printAskUsage(fs)
		os.Exit(1)
	}
	question := buildQuestion(fs.Args())
	if question == "" {
		printAskUsage(fs)
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	request := &models.ChatRequest{SessionID: *sessionID, Question: question}

	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids SQLite lock conflict).
		response, err := chatViaHTTP(*serverURL, request)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteAnswer(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct storage access (when server is not running).
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	sid := *sessionID
	if sid == "" {
		sid = uuid.NewString()
	}
	response, err := components.Synthesizer.Answer(context.Background(), sid, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnswer(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func chatViaHTTP(serverURL string, request *models.ChatRequest) (*models.ChatResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = ingest directly into local storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotae ingest [flags] <file-or-directory>")
		os.Exit(1)
	}
	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		fmt.Printf("Invalid path: %v\n", err)
		os.Exit(1)
	}

	format := cli.OutputText
	if *outputFormat == "json" {
		format = cli.OutputJSON
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}

	if *serverURL != "" {
		if info.IsDir() {
			fmt.Println("Directory ingestion over HTTP is not supported; pass a file, or use --server \"\" for direct mode")
			os.Exit(1)
		}
		response, err := ingestViaHTTP(*serverURL, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
			os.Exit(1)
		}
		if err := cli.WriteIngestResult(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	paths := []string{path}
	if info.IsDir() {
		paths, err = collectFiles(path, cfg.Knowledge.Extensions)
		if err != nil {
			fmt.Printf("Failed to scan directory: %v\n", err)
			os.Exit(1)
		}
		if len(paths) == 0 {
			fmt.Printf("No matching files under %s\n", path)
			return
		}
	}
	for _, p := range paths {
		result, err := components.Pipeline.IngestFile(ctx, p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ingest failed for %s: %v\n", p, err)
			continue
		}
		response := &models.IngestResponse{
			Status:   "ingested",
			Document: result.Document,
			Pages:    result.Pages,
			Chunks:   result.Chunks,
		}
		if err := cli.WriteIngestResult(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	}
}

// collectFiles walks root and returns files matching the configured extensions.
func collectFiles(root string, extensions []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, e := range extensions {
			if strings.ToLower(e) == ext {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})
	return paths, err
}

func ingestViaHTTP(serverURL, path string) (*models.IngestResponse, error) {
	body, err := json.Marshal(models.IngestRequest{Path: path})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/ingest", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusUnprocessableEntity {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.IngestResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	EmbeddingModel      string  `json:"embedding_model,omitempty"`
	EmbeddingDimensions int     `json:"embedding_dimensions,omitempty"`
	LLMModel            string  `json:"llm_model,omitempty"`
	ChunkSize           int     `json:"chunk_size,omitempty"`
	ChunkOverlap        int     `json:"chunk_overlap,omitempty"`
	TopK                int     `json:"top_k,omitempty"`
	MinScore            float64 `json:"min_score,omitempty"`
	DatabasePath        string  `json:"database_path,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Documents       int64                 `json:"documents"`
	Chunks          int64                 `json:"chunks"`
	VectorIndexSize int                   `json:"vector_index_size"`
	IngestionState  string                `json:"ingestion_state,omitempty"`
	DiskUsageBytes  *int64                `json:"disk_usage_bytes,omitempty"`
	Config          *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		st, err := store.Open(cfg.Storage.DatabasePath, cfg.Embedding.Dimensions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		ctx := context.Background()
		docCount, err := st.CountDocuments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		chunkCount, err := st.Count(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Documents:       docCount,
			Chunks:          chunkCount,
			VectorIndexSize: st.IndexSize(),
			Config: &statusConfigResponse{
				EmbeddingModel:      cfg.Embedding.Model,
				EmbeddingDimensions: cfg.Embedding.Dimensions,
				LLMModel:            cfg.LLM.Model,
				ChunkSize:           cfg.Chunking.ChunkSize,
				ChunkOverlap:        cfg.Chunking.ChunkOverlap,
				TopK:                cfg.Retrieval.TopK,
				MinScore:            cfg.Retrieval.MinScore,
				DatabasePath:        cfg.Storage.DatabasePath,
			},
		}
		if diskBytes, err := store.DiskUsageBytes(cfg.Storage.DatabasePath); err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:          %d   # count of ingested documents\n", status.Documents)
		fmt.Printf("chunks:             %d   # count of text chunks\n", status.Chunks)
		fmt.Printf("vector_index_size:  %d   # count of vectors in the index\n", status.VectorIndexSize)
		if status.IngestionState != "" {
			fmt.Printf("ingestion_state:    %s\n", status.IngestionState)
		}
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d   # chunk collection on disk\n", *status.DiskUsageBytes)
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			fmt.Printf("embedding_model:    %s\n", status.Config.EmbeddingModel)
			if status.Config.EmbeddingDimensions > 0 {
				fmt.Printf("embedding_dims:     %d\n", status.Config.EmbeddingDimensions)
			}
			fmt.Printf("llm_model:          %s\n", status.Config.LLMModel)
			if status.Config.ChunkSize > 0 {
				fmt.Printf("chunk_size:         %d\n", status.Config.ChunkSize)
			}
			if status.Config.ChunkOverlap > 0 {
				fmt.Printf("chunk_overlap:      %d\n", status.Config.ChunkOverlap)
			}
			if status.Config.TopK > 0 {
				fmt.Printf("top_k:              %d\n", status.Config.TopK)
			}
			fmt.Printf("min_score:          %.2f\n", status.Config.MinScore)
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:      %s\n", status.Config.DatabasePath)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Store       *store.Store
	Embedder    embedding.Embedder
	LLM         llm.Client
	Engine      *retrieval.Engine
	Pipeline    *ingest.Pipeline
	Sessions    *session.Store
	Synthesizer *synthesis.Synthesizer
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	st, err := store.Open(cfg.Storage.DatabasePath, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")

	var embedder embedding.Embedder
	if apiKey == "" {
		// No API key: fall back to the deterministic local embedder so
		// ingestion and retrieval remain usable for development.
		logger.Warn("OPENAI_API_KEY is not set, using mock embedder")
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	} else {
		embedder, err = embedding.NewOpenAIEmbedder(apiKey, cfg.Embedding.Model, cfg.Embedding.Dimensions, cfg.Embedding.BatchSize)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
	}

	var client llm.Client
	if apiKey == "" {
		logger.Warn("OPENAI_API_KEY is not set, chat completions are disabled")
		client = llm.NewDisabledClient()
	} else {
		client, err = llm.NewOpenAIClient(apiKey, cfg.LLM.Model)
		if err != nil {
			_ = st.Close()
			_ = embedder.Close()
			return nil, fmt.Errorf("failed to initialize completion client: %w", err)
		}
	}

	engine := retrieval.NewEngine(embedder, st)

	pipelineOpts := []ingest.PipelineOption{}
	if debug {
		pipelineOpts = append(pipelineOpts, ingest.WithLogger(logger))
	}
	chunker := ingest.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	pipeline := ingest.NewPipeline(embedder, st, chunker, cfg.Embedding.BatchSize, pipelineOpts...)

	sessions := session.NewStore()

	counter, err := synthesis.NewTokenCounter()
	if err != nil {
		logger.Warn("token counter unavailable, prompt budgeting disabled", zap.Error(err))
		counter = nil
	}
	synth := synthesis.NewSynthesizer(engine, client, sessions, counter,
		synthesis.Options{
			TopK:            cfg.Retrieval.TopK,
			MinScore:        cfg.Retrieval.MinScore,
			HistoryWindow:   cfg.Session.HistoryWindow,
			MaxTokens:       cfg.LLM.MaxTokens,
			Temperature:     cfg.LLM.Temperature,
			MaxRetries:      cfg.LLM.MaxRetries,
			MaxPromptTokens: cfg.LLM.MaxPromptTokens,
		},
		synthesis.WithLogger(logger),
	)

	return &Components{
		Store:       st,
		Embedder:    embedder,
		LLM:         client,
		Engine:      engine,
		Pipeline:    pipeline,
		Sessions:    sessions,
		Synthesizer: synth,
	}, nil
}

func printUsage() {
	fmt.Println(`kotae - Question answering over your PDF documents

Usage:
  kotae server [flags]            Start the HTTP server
  kotae ask [flags] <question>    Ask a question over the ingested documents
  kotae ingest [flags] <path>     Ingest a PDF file or directory
  kotae status [flags]            Show collection/storage status
  kotae version                   Show version
  kotae help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kotae/config.yaml)
  --debug            Enable debug logging (ingestion progress, watcher events, etc.)

Ask Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to answer directly when the server is not running.
  --session string   Session id to continue an earlier conversation
  --output string    Output format: text or json (default: text)

Ingest Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct mode; directories need direct mode.
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Environment:
  OPENAI_API_KEY     API key for embeddings and completions (also read from .env)

Examples:
  kotae server
  kotae ingest manual.pdf
  kotae ingest --server "" /path/to/pdfs
  kotae ask "how do I reset the device"
  kotae ask --session 2f9d0c and after that?
  kotae status --output json`)
}
