// Package tui is the terminal dashboard for the engine: printers, job
// queue, server status, and a command console.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/posline/escpos-engine/internal/command"
	"github.com/posline/escpos-engine/internal/printer"
)

const maxLogLines = 100

// App is the tview dashboard.
type App struct {
	app      *tview.Application
	manager  *printer.Manager
	queue    *printer.Queue
	executor *command.Executor
	addr     string

	flex         *tview.Flex
	printersList *tview.List
	jobsTable    *tview.Table
	statusBox    *tview.TextView
	logsArea     *tview.TextView
	commandInput *tview.InputField

	logs      []string
	startTime time.Time
}

// New creates the dashboard over the printer stack. addr is the API
// address shown in the status panel.
func New(manager *printer.Manager, queue *printer.Queue, executor *command.Executor, addr string) *App {
	a := &App{
		app:       tview.NewApplication(),
		manager:   manager,
		queue:     queue,
		executor:  executor,
		addr:      addr,
		startTime: time.Now(),
	}

	a.setupUI()
	return a
}

func (a *App) setupUI() {
	a.printersList = tview.NewList()
	a.printersList.SetBorder(true)
	a.printersList.SetTitle("Printers")

	a.jobsTable = tview.NewTable()
	a.jobsTable.SetBorder(true)
	a.jobsTable.SetTitle("Print Queue")

	a.statusBox = tview.NewTextView()
	a.statusBox.SetBorder(true)
	a.statusBox.SetTitle("Status")
	a.statusBox.SetDynamicColors(true)

	a.logsArea = tview.NewTextView()
	a.logsArea.SetBorder(true)
	a.logsArea.SetTitle("Log")
	a.logsArea.SetDynamicColors(true)
	a.logsArea.SetScrollable(true)
	a.logsArea.SetChangedFunc(func() {
		a.app.Draw()
	})

	a.commandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0).
		SetPlaceholder("Type a command (e.g. 'help')").
		SetDoneFunc(func(key tcell.Key) {
			if key == tcell.KeyEnter {
				a.runCommand(a.commandInput.GetText())
				a.commandInput.SetText("")
			}
		})

	topRow := tview.NewFlex().
		AddItem(a.printersList, 0, 1, false).
		AddItem(a.jobsTable, 0, 1, false).
		AddItem(a.statusBox, 0, 1, false)

	bottom := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.logsArea, 0, 3, false).
		AddItem(a.commandInput, 1, 0, true)

	a.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, false).
		AddItem(bottom, 0, 1, false)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if a.commandInput.HasFocus() {
			if event.Key() == tcell.KeyEsc {
				a.app.SetFocus(a.printersList)
				return nil
			}
			return event
		}

		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEsc:
			a.app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case ':':
				a.app.SetFocus(a.commandInput)
				return nil
			case 'q':
				a.app.Stop()
				return nil
			}
		}
		return event
	})

	a.app.SetRoot(a.flex, true)
}

// Run starts the dashboard and blocks until it exits.
func (a *App) Run() error {
	a.refreshAll()
	go a.refreshTicker()

	a.Log("receipt engine ready", "info")

	return a.app.Run()
}

// Stop terminates the dashboard.
func (a *App) Stop() {
	a.app.Stop()
}

func (a *App) refreshTicker() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		a.app.QueueUpdateDraw(func() {
			a.refreshAll()
		})
	}
}

func (a *App) refreshAll() {
	a.refreshPrinters()
	a.refreshJobs()
	a.refreshStatus()
}

func (a *App) refreshPrinters() {
	a.printersList.Clear()

	printers := a.manager.All()
	if len(printers) == 0 {
		a.printersList.AddItem("No printers detected", "try the 'detect' command", 0, nil)
		return
	}

	for _, p := range printers {
		name := p.Name
		if name == "" {
			name = p.Description
		}
		if name == "" {
			name = p.ID
		}

		target := p.Device
		if p.Type == "network" {
			target = fmt.Sprintf("%s:%d", p.Host, p.Port)
		}
		details := fmt.Sprintf("%s • %s", strings.ToUpper(p.Type), target)

		a.printersList.AddItem(name, details, 0, nil)
	}
}

func (a *App) refreshJobs() {
	a.jobsTable.Clear()

	headers := []string{"Status", "Printer", "Bytes", "Retries", "Age"}
	for i, h := range headers {
		a.jobsTable.SetCell(0, i, tview.NewTableCell(h).SetAlign(tview.AlignCenter).SetSelectable(false))
	}

	for i, job := range a.queue.Jobs() {
		row := i + 1
		a.jobsTable.SetCell(row, 0, tview.NewTableCell(string(job.Status)))
		a.jobsTable.SetCell(row, 1, tview.NewTableCell(shortID(job.PrinterID)))
		a.jobsTable.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", job.Size)))
		a.jobsTable.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%d", job.Retries)))
		a.jobsTable.SetCell(row, 4, tview.NewTableCell(time.Since(job.CreatedAt).Truncate(time.Second).String()))
	}
}

func (a *App) refreshStatus() {
	uptime := time.Since(a.startTime)
	hours := int(uptime.Hours())
	minutes := int(uptime.Minutes()) % 60

	a.statusBox.SetText(fmt.Sprintf(`[green]running[white]

Uptime: %dh %dm
API: %s
Jobs: %d total`, hours, minutes, a.addr, len(a.queue.Jobs())))
}

// runCommand sends console input through the shared command executor.
func (a *App) runCommand(cmd string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return
	}

	a.Log("> "+cmd, "command")

	switch cmd {
	case "clear":
		a.logs = nil
		a.logsArea.Clear()
		return
	case "refresh":
		a.refreshAll()
		return
	case "quit", "q":
		a.app.Stop()
		return
	}

	result := a.executor.Execute(cmd)
	if !result.Success {
		a.Log(result.Error, "error")
		return
	}
	if result.Message != "" {
		a.Log(result.Message, "info")
	}
	a.refreshAll()
}

// Log appends a line to the log panel.
func (a *App) Log(message, level string) {
	var color string
	switch level {
	case "error":
		color = "[red]"
	case "warning":
		color = "[yellow]"
	case "command":
		color = "[cyan]"
	default:
		color = "[white]"
	}

	entry := fmt.Sprintf("%s[%s] %s[white]\n", color, time.Now().Format("15:04:05"), message)

	a.logs = append(a.logs, entry)
	if len(a.logs) > maxLogLines {
		a.logs = a.logs[len(a.logs)-maxLogLines:]
	}

	a.logsArea.Clear()
	for _, line := range a.logs {
		fmt.Fprint(a.logsArea, line)
	}
	a.logsArea.ScrollToEnd()
}

// LogWriter adapts the log panel into an io.Writer, so the zap logger
// can tee into the dashboard.
func (a *App) LogWriter() io.Writer {
	return &logWriter{app: a}
}

type logWriter struct {
	app *App
}

func (w *logWriter) Write(p []byte) (int, error) {
	if message := strings.TrimSpace(string(p)); message != "" {
		w.app.Log(message, "info")
	}
	return len(p), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
