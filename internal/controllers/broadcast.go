package controllers

import (
	"github.com/campuscard/card_backend/internal/models"
	"github.com/campuscard/card_backend/internal/ws"
)

func broadcastLog(hub *ws.TelemetryHub, logRow models.SystemLog) {
	if hub == nil {
		return
	}
	hub.Broadcast(ws.TelemetryEvent{Kind: "log", Log: &logRow})
}

func broadcastAnomaly(hub *ws.TelemetryHub, event models.Anomaly) {
	if hub == nil {
		return
	}
	hub.Broadcast(ws.TelemetryEvent{Kind: "anomaly", Anomaly: &event})
}
