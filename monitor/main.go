package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/shockwatch/pkg/config"
	"github.com/itohio/shockwatch/pkg/device"
	"github.com/itohio/shockwatch/pkg/history"
	"github.com/itohio/shockwatch/pkg/scope"
	"github.com/itohio/shockwatch/pkg/watch"
)

// Scope redraws are limited to ~30 FPS
const updateInterval = 33 * time.Millisecond

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use simulated unit instead of serial port")
		windowFlag = flag.Float64("window", 0, "History window in seconds (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *windowFlag > 0 {
		cfg.Display.WindowSeconds = *windowFlag
	}

	application := app.NewWithID("com.itohio.shockwatch")

	window := application.NewWindow("Shock Watch")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		history:    history.New(cfg.Window()),
		window:     window,
		useMock:    *mockFlag,
		throttle:   &throttle{interval: updateInterval},
	}
	state.scopeWidget = scope.New(cfg.Window(), cfg.Display.MaxPoints)
	state.status = widget.NewLabel(statusText(history.Snapshot{}, false))

	state.history.OnUpdate(func(s history.Snapshot) {
		if !state.throttle.admit(time.Now(), s) {
			return
		}
		fyne.Do(func() {
			state.scopeWidget.UpdateData(s)
			state.status.SetText(statusText(s, true))
		})
	})

	content := container.NewBorder(
		createToolbar(state),
		state.status,
		nil,
		nil,
		state.scopeWidget,
	)

	window.SetContent(content)
	window.SetOnClosed(func() {
		closeChain(state.chain)
	})
	window.ShowAndRun()
}

// chain tracks the goroutines fed by a connected device for graceful shutdown.
type chain struct {
	device      device.Device
	historyDone chan struct{} // Closed when the history goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	configPath  string
	history     *history.History
	scopeWidget *scope.ScopeWidget
	status      *widget.Label
	window      fyne.Window
	useMock     bool
	chain       *chain // nil if not connected
	throttle    *throttle
}

// throttle drops updates that arrive sooner than interval after the last one.
// Updates carrying a new alarm or fault always pass.
type throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	alarms   int
	fault    string
}

func (t *throttle) admit(now time.Time, s history.Snapshot) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	alarms := 0
	for _, n := range s.Alarms {
		alarms += n
	}
	urgent := alarms != t.alarms || s.Fault != t.fault
	t.alarms, t.fault = alarms, s.Fault

	if !urgent && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// createToolbar creates the application toolbar with Connect and Settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})
	clearBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		state.history.Reset()
		s := state.history.Snapshot()
		state.scopeWidget.UpdateData(s)
		state.status.SetText(statusText(s, state.chain != nil))
	})

	return container.NewHBox(connectBtn, settingsBtn, clearBtn)
}

// closeChain closes the device and waits for the history goroutine to drain it.
func closeChain(c *chain) {
	if c == nil {
		return
	}
	if err := c.device.Close(); err != nil {
		log.Printf("Error closing device: %v", err)
	}
	<-c.historyDone
}

// handleConnect toggles the connection.
func handleConnect(state *appState) {
	if state.chain != nil {
		closeChain(state.chain)
		state.chain = nil
		state.status.SetText(statusText(state.history.Snapshot(), false))
		log.Println("Disconnected")
		return
	}

	var dev device.Device
	if state.useMock {
		dev = device.NewMock(&state.cfg.Mock)
	} else {
		dev = device.New(state.cfg.Serial.Port, state.cfg.Serial.BaudRate, device.DefaultBufferSize)
	}

	if err := dev.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to start simulated unit: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	if state.useMock {
		log.Println("Connected to simulated unit")
	} else {
		log.Printf("Connected to serial port: %s", state.cfg.Serial.Port)
	}

	// A fresh unit starts with a fresh reference
	state.history.Reset()
	state.history.ResetShutdown()

	done := make(chan struct{})
	go func() {
		defer close(done)
		state.history.ProcessEvents(dev.Events())
	}()

	state.chain = &chain{device: dev, historyDone: done}
	state.status.SetText(statusText(state.history.Snapshot(), true))
}

// statusText summarizes a snapshot for the status bar.
func statusText(s history.Snapshot, connected bool) string {
	if !connected {
		return "Disconnected"
	}
	if s.Fault != "" {
		return "HALTED: " + s.Fault
	}
	return fmt.Sprintf("Reference X %.3f m/s², T %.2f °C | mechanical alarms: %d | temperature alarms: %d",
		s.Reference.Acceleration.X,
		s.Reference.Temperature,
		s.Alarms[watch.Mechanical],
		s.Alarms[watch.Temperature],
	)
}
