package command

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/posline/escpos-engine/internal/encoder"
	"github.com/posline/escpos-engine/internal/preview"
	"github.com/posline/escpos-engine/internal/printer"
	"github.com/posline/escpos-engine/internal/template"
	"github.com/posline/escpos-engine/pkg/receipt"
)

// handlePrint encodes a document and queues it for delivery.
// Usage: print <printer-id> <document-path> [--paper 58mm|80mm] [--raster] [--var key=value]
func (e *Executor) handlePrint(args []string) *Result {
	if len(args) < 2 {
		return failure("usage: print <printer-id> <document-path> [--paper 58mm|80mm] [--raster] [--var key=value]")
	}

	printerID := args[0]
	if e.manager.Get(printerID) == nil {
		return failure("printer not found: %s", printerID)
	}

	doc, err := loadDocument(args[1])
	if err != nil {
		return failure("failed to load document: %v", err)
	}
	if err := receipt.Validate(doc); err != nil {
		return failure("invalid document: %v", err)
	}

	paper := doc.PaperWidth
	raster := false
	vars := map[string]string{}
	for i := 2; i < len(args); i++ {
		switch args[i] {
		case "--paper":
			if i+1 >= len(args) {
				return failure("--paper requires a value")
			}
			i++
			paper = receipt.PaperWidth(args[i])
		case "--raster":
			raster = true
		case "--var":
			if i+1 >= len(args) {
				return failure("--var requires key=value")
			}
			i++
			key, value, ok := strings.Cut(args[i], "=")
			if !ok {
				return failure("--var requires key=value, got %q", args[i])
			}
			vars[key] = value
		}
	}
	if paper == "" {
		paper = receipt.Paper80mm
	}

	items := template.Apply(doc, vars)

	var payload []byte
	if raster {
		img, err := preview.RenderItemsWidth(items, paper, doc.CharsPerLine)
		if err != nil {
			return failure("failed to render document: %v", err)
		}
		payload = printer.Rasterize(img)
	} else {
		payload = encoder.EncodeWidth(items, paper, doc.CharsPerLine)
	}

	jobID := e.queue.Enqueue(printerID, payload)

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Print job queued: %s", jobID),
		Data: map[string]any{
			"job_id":     jobID,
			"printer_id": printerID,
		},
	}
}

// handleEncode encodes a document and returns the payload as base64.
// Usage: encode <document-path> [--paper 58mm|80mm]
func (e *Executor) handleEncode(args []string) *Result {
	if len(args) < 1 {
		return failure("usage: encode <document-path> [--paper 58mm|80mm]")
	}

	doc, err := loadDocument(args[0])
	if err != nil {
		return failure("failed to load document: %v", err)
	}
	if err := receipt.Validate(doc); err != nil {
		return failure("invalid document: %v", err)
	}

	paper := doc.PaperWidth
	if len(args) >= 3 && args[1] == "--paper" {
		paper = receipt.PaperWidth(args[2])
	}
	if paper == "" {
		paper = receipt.Paper80mm
	}

	payload := encoder.EncodeWidth(doc.Items, paper, doc.CharsPerLine)

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Encoded %d bytes", len(payload)),
		Data: map[string]any{
			"size":    len(payload),
			"payload": base64.StdEncoding.EncodeToString(payload),
		},
	}
}

// handlePrinter manages the printer list.
// Usage: printer list | add-network <host> [port] | rename <id> <name>
func (e *Executor) handlePrinter(args []string) *Result {
	if len(args) == 0 {
		return failure("usage: printer <list|add-network|rename>")
	}

	switch args[0] {
	case "list":
		printers := e.manager.All()
		return &Result{
			Success: true,
			Message: fmt.Sprintf("Found %d printer(s)", len(printers)),
			Data:    map[string]any{"printers": printers},
		}

	case "add-network":
		if len(args) < 2 {
			return failure("usage: printer add-network <host> [port]")
		}
		host := args[1]
		port := 9100
		if len(args) >= 3 {
			var err error
			port, err = strconv.Atoi(args[2])
			if err != nil {
				return failure("invalid port: %s", args[2])
			}
		}
		printerID := e.manager.AddNetwork(host, port, "")
		return &Result{
			Success: true,
			Message: fmt.Sprintf("Added network printer %s:%d", host, port),
			Data: map[string]any{
				"printer_id": printerID,
				"printer":    e.manager.Get(printerID),
			},
		}

	case "rename":
		if len(args) < 3 {
			return failure("usage: printer rename <id> <name>")
		}
		if err := e.manager.Rename(args[1], args[2]); err != nil {
			return failure("printer not found: %s", args[1])
		}
		return &Result{
			Success: true,
			Message: fmt.Sprintf("Renamed printer %s to %s", args[1], args[2]),
		}

	default:
		return failure("unknown printer subcommand: %s. Use: list, add-network, rename", args[0])
	}
}

// handleJob inspects the delivery queue.
// Usage: job list | status <id> | clear
func (e *Executor) handleJob(args []string) *Result {
	if len(args) == 0 {
		return failure("usage: job <list|status|clear>")
	}

	switch args[0] {
	case "list":
		jobs := e.queue.Jobs()
		return &Result{
			Success: true,
			Message: fmt.Sprintf("Found %d job(s)", len(jobs)),
			Data:    map[string]any{"jobs": jobs},
		}

	case "status":
		if len(args) < 2 {
			return failure("usage: job status <id>")
		}
		job := e.queue.Job(args[1])
		if job == nil {
			return failure("job not found: %s", args[1])
		}
		return &Result{
			Success: true,
			Data:    map[string]any{"job": job},
		}

	case "clear":
		e.queue.ClearCompleted()
		return &Result{Success: true, Message: "Cleared completed jobs"}

	default:
		return failure("unknown job subcommand: %s. Use: list, status, clear", args[0])
	}
}

// handleDetect rescans for printers.
func (e *Executor) handleDetect(args []string) *Result {
	printers, err := e.manager.Detect()
	if err != nil {
		return failure("detection failed: %v", err)
	}
	return &Result{
		Success: true,
		Message: fmt.Sprintf("Detected %d printer(s)", len(printers)),
		Data:    map[string]any{"count": len(printers)},
	}
}

func (e *Executor) handleHelp(args []string) *Result {
	helpText := `Available Commands:

  print <printer-id> <document-path> [--paper 58mm|80mm] [--raster] [--var key=value]
    Encode a receipt document and queue it for printing.
    --raster renders the receipt as an image before sending.
    --var fills a declared document variable; repeatable.

  encode <document-path> [--paper 58mm|80mm]
    Encode a receipt document and return the payload as base64.

  printer list
    List all known printers

  printer add-network <host> [port]
    Add a network printer (default port: 9100)

  printer rename <id> <name>
    Set a custom name for a printer

  job list
    List all print jobs

  job status <id>
    Get status of a specific job

  job clear
    Clear completed jobs from the queue

  detect
    Rescan for printers

  help
    Show this help message

Examples:
  print 6a4c-... ./receipt.json
  print 6a4c-... ./receipt.json --paper 58mm
  encode ./receipt.json
  printer add-network 192.168.1.100 9100
  printer rename 6a4c-... "Kitchen Printer"
`

	return &Result{Success: true, Message: helpText}
}

// loadDocument reads a receipt document from a local path or URL.
func loadDocument(pathOrURL string) (*receipt.Document, error) {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		resp, err := http.Get(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch document: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch document: HTTP %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return receipt.Parse(data)
	}

	return receipt.ParseFile(pathOrURL)
}
