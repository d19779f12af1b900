// Package command implements the engine's text command interface, used
// by the /command endpoint and the interactive console.
package command

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/posline/escpos-engine/internal/printer"
)

// Executor parses and runs command strings.
type Executor struct {
	manager *printer.Manager
	pool    *printer.Pool
	queue   *printer.Queue
	log     *zap.Logger
}

// NewExecutor creates a command executor over the printer stack.
func NewExecutor(manager *printer.Manager, pool *printer.Pool, queue *printer.Queue, log *zap.Logger) *Executor {
	return &Executor{
		manager: manager,
		pool:    pool,
		queue:   queue,
		log:     log,
	}
}

// Result is the outcome of one command.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func failure(format string, args ...any) *Result {
	return &Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Execute parses a command string and routes it to its handler.
func (e *Executor) Execute(cmdStr string) *Result {
	parts := splitCommand(cmdStr)
	if len(parts) == 0 {
		return failure("empty command")
	}

	name, args := parts[0], parts[1:]

	switch name {
	case "print":
		return e.handlePrint(args)
	case "encode":
		return e.handleEncode(args)
	case "printer":
		return e.handlePrinter(args)
	case "job":
		return e.handleJob(args)
	case "detect":
		return e.handleDetect(args)
	case "help":
		return e.handleHelp(args)
	default:
		return failure("unknown command: %s. Type 'help' for available commands", name)
	}
}

// splitCommand tokenizes a command string, keeping quoted segments
// together.
func splitCommand(cmdStr string) []string {
	cmdStr = strings.TrimSpace(cmdStr)
	if cmdStr == "" {
		return nil
	}

	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := byte(0)

	for i := 0; i < len(cmdStr); i++ {
		char := cmdStr[i]

		switch {
		case char == '"' || char == '\'':
			if !inQuotes {
				inQuotes = true
				quoteChar = char
			} else if char == quoteChar {
				inQuotes = false
				quoteChar = 0
			} else {
				current.WriteByte(char)
			}
		case char == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(char)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}
