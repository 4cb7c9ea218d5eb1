package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/diagram-tools-mcp/internal/config"
	"github.com/ironsheep/diagram-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("diagram-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("diagram-tools-mcp - MCP server that turns flowchart detections into clean diagrams")
			fmt.Println()
			fmt.Println("Usage: diagram-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  DIAGRAM_MCP_CONFIG=path      YAML config file")
			fmt.Println("  DIAGRAM_MCP_LOG_LEVEL=debug  Enable debug logging")
			fmt.Println("  DIAGRAM_MCP_CONFIDENCE=0.5   Detection confidence threshold")
			fmt.Println("  DIAGRAM_MCP_WORKERS=N        Render planning goroutines")
			fmt.Println("  DIAGRAM_MCP_OCR_LANG=eng     Tesseract language")
			fmt.Println("  TESSDATA_PREFIX=dir          Tesseract traineddata directory")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Diagram MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Config: threshold=%.2f workers=%d ocr=%s", cfg.ConfidenceThreshold, cfg.Workers, cfg.OCRLanguage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Server error: %v", err)
	}
}
