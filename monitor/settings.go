package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/shockwatch/pkg/device"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createDisplayTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

func saveConfig(state *appState) {
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
	}
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := device.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Display name to port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Keep the configured port selectable even when it is not plugged in
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			selectedPort := state.cfg.Serial.Port
			if portSelect.Selected != "" {
				selectedPort = portMap[portSelect.Selected]
				if selectedPort == "" {
					selectedPort = portSelect.Selected
				}
			}
			baudRate := state.cfg.Serial.BaudRate
			if b, err := strconv.Atoi(baudEntry.Text); err == nil && b > 0 {
				baudRate = b
			}

			changed := selectedPort != state.cfg.Serial.Port || baudRate != state.cfg.Serial.BaudRate
			state.cfg.Serial.Port = selectedPort
			state.cfg.Serial.BaudRate = baudRate
			saveConfig(state)

			// Reconnect a live serial link with the new settings
			if changed && state.chain != nil && !state.useMock {
				handleConnect(state)
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createDisplayTab creates the Display configuration tab.
func createDisplayTab(state *appState) *container.TabItem {
	windowEntry := widget.NewEntry()
	windowEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Display.WindowSeconds))

	maxPointsEntry := widget.NewEntry()
	maxPointsEntry.SetText(strconv.Itoa(state.cfg.Display.MaxPoints))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Window (seconds)", Widget: windowEntry},
			{Text: "Max Points", Widget: maxPointsEntry},
		},
		OnSubmit: func() {
			if ws, err := strconv.ParseFloat(windowEntry.Text, 64); err == nil && ws > 0 {
				state.cfg.Display.WindowSeconds = ws
			}
			if mp, err := strconv.Atoi(maxPointsEntry.Text); err == nil && mp > 0 {
				state.cfg.Display.MaxPoints = mp
			}
			saveConfig(state)

			state.history.SetWindow(state.cfg.Window())
			state.scopeWidget.SetWindow(state.cfg.Window())
		},
	}

	return container.NewTabItem("Display", form)
}

// createMockTab creates the simulated unit configuration tab.
// Changes apply on the next connect.
func createMockTab(state *appState) *container.TabItem {
	m := &state.cfg.Mock

	accEntries := [3]*widget.Entry{widget.NewEntry(), widget.NewEntry(), widget.NewEntry()}
	for i, e := range accEntries {
		e.SetText(formatFloat32(m.Acceleration[i]))
	}

	temperatureEntry := widget.NewEntry()
	temperatureEntry.SetText(formatFloat32(m.Temperature))

	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(formatFloat32(m.NoiseLevel))

	bumpPeriodEntry := widget.NewEntry()
	bumpPeriodEntry.SetText(m.BumpPeriod.String())

	bumpMagnitudeEntry := widget.NewEntry()
	bumpMagnitudeEntry.SetText(formatFloat32(m.BumpMagnitude))

	driftEntry := widget.NewEntry()
	driftEntry.SetText(formatFloat32(m.TemperatureDrift))

	failAfterEntry := widget.NewEntry()
	failAfterEntry.SetText(strconv.Itoa(m.FailAfter))

	speedEntry := widget.NewEntry()
	speedEntry.SetText(strconv.FormatFloat(m.Speed, 'g', -1, 64))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Acceleration X (m/s²)", Widget: accEntries[0]},
			{Text: "Acceleration Y (m/s²)", Widget: accEntries[1]},
			{Text: "Acceleration Z (m/s²)", Widget: accEntries[2]},
			{Text: "Temperature (°C)", Widget: temperatureEntry},
			{Text: "Noise Level", Widget: noiseEntry},
			{Text: "Knock Period (0 = never)", Widget: bumpPeriodEntry},
			{Text: "Knock Magnitude (m/s²)", Widget: bumpMagnitudeEntry},
			{Text: "Temperature Drift (°C/s)", Widget: driftEntry},
			{Text: "Fail After Reads (0 = never)", Widget: failAfterEntry},
			{Text: "Speed", Widget: speedEntry},
		},
		OnSubmit: func() {
			for i, e := range accEntries {
				parseFloat32(e.Text, &m.Acceleration[i])
			}
			parseFloat32(temperatureEntry.Text, &m.Temperature)
			parseFloat32(noiseEntry.Text, &m.NoiseLevel)
			if bp, err := time.ParseDuration(bumpPeriodEntry.Text); err == nil && bp >= 0 {
				m.BumpPeriod = bp
			}
			parseFloat32(bumpMagnitudeEntry.Text, &m.BumpMagnitude)
			parseFloat32(driftEntry.Text, &m.TemperatureDrift)
			if fa, err := strconv.Atoi(failAfterEntry.Text); err == nil && fa >= 0 {
				m.FailAfter = fa
			}
			if sp, err := strconv.ParseFloat(speedEntry.Text, 64); err == nil && sp > 0 {
				m.Speed = sp
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Mock", form)
}

func formatFloat32(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// parseFloat32 stores the parsed value in dst and leaves dst unchanged on error.
func parseFloat32(s string, dst *float32) {
	if v, err := strconv.ParseFloat(s, 32); err == nil {
		*dst = float32(v)
	}
}
