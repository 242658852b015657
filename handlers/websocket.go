package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"crop-monitor/entities"
	"crop-monitor/services"
	"crop-monitor/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocket message envelopes
type incomingMessage struct {
	Type string `json:"type"` // reading | heartbeat
}

type readingPayload struct {
	Type            string   `json:"type"`
	Moi             *float64 `json:"moi"`
	Temp            *float64 `json:"temp"`
	Humidity        *float64 `json:"humidity"`
	CropName        string   `json:"crop_name"`
	SoilName        string   `json:"soil_name"`
	GrowthStageName string   `json:"growth_stage_name"`
	Timestamp       string   `json:"timestamp"`
}

// WSHandler groups dependencies for the station streaming flow.
type WSHandler struct {
	mgr       *ws.Manager
	processor *services.IngestProcessor
}

func NewWSHandler(mgr *ws.Manager, processor *services.IngestProcessor) *WSHandler {
	return &WSHandler{mgr: mgr, processor: processor}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleStationWS upgrades to websocket and reads reading payloads from a
// monitoring station.
// GET /ws?station=<station_id>
func (h *WSHandler) HandleStationWS(c *gin.Context) {
	stationID := c.Query("station")
	if stationID == "" {
		// Anonymous stations get an id assigned for the session.
		stationID = uuid.New().String()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for station %s: %v", stationID, err)
		return
	}

	h.mgr.Register(stationID, conn)
	if err := conn.WriteJSON(gin.H{"type": "registered", "station_id": stationID}); err != nil {
		log.Printf("failed to ack registration for station %s: %v", stationID, err)
	}

	go h.readLoop(stationID, conn)
}

func (h *WSHandler) readLoop(stationID string, conn *websocket.Conn) {
	defer h.mgr.Unregister(stationID, conn)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Printf("station %s disconnected: %v", stationID, err)
			return
		}

		var envelope incomingMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			h.sendError(stationID, "invalid message")
			continue
		}

		switch envelope.Type {
		case "reading":
			h.handleReading(stationID, raw)
		case "heartbeat":
			// nothing to do; the read keeps the connection alive
		default:
			h.sendError(stationID, "unknown message type")
		}
	}
}

func (h *WSHandler) handleReading(stationID string, raw []byte) {
	var payload readingPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.sendError(stationID, "invalid reading payload")
		return
	}

	if payload.CropName == "" || payload.SoilName == "" || payload.GrowthStageName == "" {
		h.sendError(stationID, "crop_name, soil_name and growth_stage_name are required")
		return
	}
	if payload.Moi == nil || payload.Temp == nil || payload.Humidity == nil {
		h.sendError(stationID, "moi, temp and humidity are required")
		return
	}

	h.processor.Add(stationID, entities.ReadingInput{
		Moi:             payload.Moi,
		Temp:            payload.Temp,
		Humidity:        payload.Humidity,
		CropName:        payload.CropName,
		SoilName:        payload.SoilName,
		GrowthStageName: payload.GrowthStageName,
		Timestamp:       payload.Timestamp,
	})

	ack, _ := json.Marshal(gin.H{"type": "ack"})
	if err := h.mgr.Send(stationID, ack); err != nil {
		log.Printf("failed to ack reading from station %s: %v", stationID, err)
	}
}

func (h *WSHandler) sendError(stationID, message string) {
	payload, _ := json.Marshal(gin.H{"type": "error", "error": message})
	if err := h.mgr.Send(stationID, payload); err != nil {
		log.Printf("failed to report error to station %s: %v", stationID, err)
	}
}

// GetConnectedStations handles GET /api/v1/stations/connected
func (h *WSHandler) GetConnectedStations(c *gin.Context) {
	stations := h.mgr.List()
	c.JSON(http.StatusOK, gin.H{
		"stations": stations,
		"count":    len(stations),
	})
}
