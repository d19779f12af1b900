// Command escpos-cli is a thin HTTP client for a running engine. Most
// commands are forwarded verbatim to the /command endpoint; print
// --data and preview talk to their dedicated endpoints.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const defaultServerURL = "http://localhost:8080"

func main() {
	var serverURL string
	flag.StringVar(&serverURL, "server", defaultServerURL, "Server URL")
	flag.StringVar(&serverURL, "s", defaultServerURL, "Server URL (short)")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	serverURL = strings.TrimSuffix(serverURL, "/")
	args := flag.Args()

	var result *CommandResult
	switch {
	case args[0] == "preview":
		result = runPreview(serverURL, args[1:])
	case args[0] == "print" && hasFlag(args, "--data"):
		result = runDataPrint(serverURL, args[1:])
	default:
		result = runCommand(serverURL, strings.Join(args, " "))
	}

	if result.Success {
		printSuccess(result)
		return
	}
	printError(result)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ESC/POS Engine CLI

Usage:
  escpos-cli [flags] <command>

Flags:
  -s, -server <url>    Server URL (default: %s)

Commands:
  print <printer-id> <document-path> [--paper 58mm|80mm] [--raster] [--var key=value]
    Print a receipt document to the specified printer

  print <printer-id> --data <data-path> [--paper 58mm|80mm]
    Build a receipt from structured sale data and print it

  encode <document-path> [--paper 58mm|80mm]
    Encode a document and print the payload as base64

  preview <document-path> [-o out.png] [--paper 58mm|80mm]
    Render a document to a PNG image

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
    Show server-side command help

Examples:
  escpos-cli print 6a4c-... ./receipt.json
  escpos-cli print 6a4c-... ./receipt.json --var customer="Ada Lovelace"
  escpos-cli print 6a4c-... --data ./sale.json --paper 58mm
  escpos-cli preview ./receipt.json -o receipt.png
  escpos-cli printer add-network 192.168.1.100 9100
  escpos-cli -s http://localhost:9090 printer list

`, defaultServerURL)
}

// CommandResult mirrors the server's /command response.
type CommandResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// runCommand forwards a command string to /command.
func runCommand(serverURL, command string) *CommandResult {
	body, _ := json.Marshal(map[string]string{"command": command})

	resp, err := http.Post(serverURL+"/command", "application/json", bytes.NewReader(body))
	if err != nil {
		return &CommandResult{Error: fmt.Sprintf("failed to connect to server: %v", err)}
	}
	defer resp.Body.Close()

	return decodeResult(resp.Body)
}

// runDataPrint posts structured sale data to /print, letting the server
// lay out the receipt.
func runDataPrint(serverURL string, args []string) *CommandResult {
	if len(args) < 1 {
		return &CommandResult{Error: "usage: print <printer-id> --data <data-path> [--paper 58mm|80mm]"}
	}
	printerID := args[0]

	var dataPath, paper string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--data":
			if i+1 >= len(args) {
				return &CommandResult{Error: "--data requires a file path"}
			}
			i++
			dataPath = args[i]
		case "--paper":
			if i+1 >= len(args) {
				return &CommandResult{Error: "--paper requires a value"}
			}
			i++
			paper = args[i]
		}
	}
	if dataPath == "" {
		return &CommandResult{Error: "--data requires a file path"}
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return &CommandResult{Error: fmt.Sprintf("failed to read data file: %v", err)}
	}
	if !json.Valid(raw) {
		return &CommandResult{Error: fmt.Sprintf("%s is not valid JSON", dataPath)}
	}

	req := map[string]any{
		"printer_id": printerID,
		"data":       json.RawMessage(raw),
	}
	if paper != "" {
		req["paper_width"] = paper
	}
	body, _ := json.Marshal(req)

	resp, err := http.Post(serverURL+"/print", "application/json", bytes.NewReader(body))
	if err != nil {
		return &CommandResult{Error: fmt.Sprintf("failed to connect to server: %v", err)}
	}
	defer resp.Body.Close()

	result := decodeResult(resp.Body)
	if result.Success && result.Message == "" {
		result.Message = "Print job queued"
	}
	return result
}

// runPreview posts a document to /preview and writes the PNG response.
func runPreview(serverURL string, args []string) *CommandResult {
	if len(args) < 1 {
		return &CommandResult{Error: "usage: preview <document-path> [-o out.png] [--paper 58mm|80mm]"}
	}

	docPath := args[0]
	outPath := "preview.png"
	var paper string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--out":
			if i+1 >= len(args) {
				return &CommandResult{Error: "-o requires a file path"}
			}
			i++
			outPath = args[i]
		case "--paper":
			if i+1 >= len(args) {
				return &CommandResult{Error: "--paper requires a value"}
			}
			i++
			paper = args[i]
		}
	}

	raw, err := os.ReadFile(docPath)
	if err != nil {
		return &CommandResult{Error: fmt.Sprintf("failed to read document: %v", err)}
	}
	if !json.Valid(raw) {
		return &CommandResult{Error: fmt.Sprintf("%s is not valid JSON", docPath)}
	}

	req := map[string]any{"document": json.RawMessage(raw)}
	if paper != "" {
		req["paper_width"] = paper
	}
	body, _ := json.Marshal(req)

	resp, err := http.Post(serverURL+"/preview", "application/json", bytes.NewReader(body))
	if err != nil {
		return &CommandResult{Error: fmt.Sprintf("failed to connect to server: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeResult(resp.Body)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return &CommandResult{Error: fmt.Sprintf("failed to create %s: %v", outPath, err)}
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return &CommandResult{Error: fmt.Sprintf("failed to write image: %v", err)}
	}

	return &CommandResult{
		Success: true,
		Message: fmt.Sprintf("Wrote %s (%d bytes)", outPath, n),
	}
}

// decodeResult reads a JSON response body. The /command endpoint
// flattens result data into the top level, so unknown keys are folded
// back into Data.
func decodeResult(r io.Reader) *CommandResult {
	body, err := io.ReadAll(r)
	if err != nil {
		return &CommandResult{Error: fmt.Sprintf("failed to read response: %v", err)}
	}

	var flat map[string]any
	if err := json.Unmarshal(body, &flat); err != nil {
		return &CommandResult{Error: fmt.Sprintf("failed to parse response: %v", err)}
	}

	result := &CommandResult{Data: map[string]any{}}
	for k, v := range flat {
		switch k {
		case "success":
			result.Success, _ = v.(bool)
		case "message":
			result.Message, _ = v.(string)
		case "error":
			result.Error, _ = v.(string)
		default:
			result.Data[k] = v
		}
	}
	return result
}

func printSuccess(result *CommandResult) {
	if result.Message != "" {
		fmt.Println(result.Message)
	}

	if printers, ok := result.Data["printers"].([]any); ok {
		fmt.Println("\nPrinters:")
		for _, p := range printers {
			printer, ok := p.(map[string]any)
			if !ok {
				continue
			}
			name := printer["name"]
			if name == "" || name == nil {
				name = printer["description"]
			}
			fmt.Printf("  %s: %s (%s)\n", printer["id"], name, printer["type"])
		}
	}

	if jobs, ok := result.Data["jobs"].([]any); ok {
		fmt.Println("\nJobs:")
		for _, j := range jobs {
			job, ok := j.(map[string]any)
			if !ok {
				continue
			}
			fmt.Printf("  %s: %s (printer: %s)\n", job["id"], job["status"], job["printer_id"])
		}
	}

	if job, ok := result.Data["job"].(map[string]any); ok {
		fmt.Printf("Job %s: %s", job["id"], job["status"])
		if errMsg, ok := job["error"].(string); ok && errMsg != "" {
			fmt.Printf(" (%s)", errMsg)
		}
		fmt.Println()
	}

	if jobID, ok := result.Data["job_id"].(string); ok {
		fmt.Printf("Job ID: %s\n", jobID)
	}

	if printerID, ok := result.Data["printer_id"].(string); ok {
		fmt.Printf("Printer ID: %s\n", printerID)
	}

	if payload, ok := result.Data["payload"].(string); ok {
		fmt.Println(payload)
	}
}

func printError(result *CommandResult) {
	if result.Error != "" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", result.Error)
	} else if result.Message != "" {
		fmt.Fprintf(os.Stderr, "%s\n", result.Message)
	} else {
		fmt.Fprintln(os.Stderr, "Error: request failed")
	}
}
