package logging

import (
	"encoding/json"
	"log"
	"time"
)

type Fields struct {
	Service    string `json:"service"`
	UserID     string `json:"user_id,omitempty"`
	OrderID    string `json:"order_id,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
	EventID    string `json:"event_id,omitempty"`
	Channel    string `json:"channel,omitempty"`
	Step       string `json:"step,omitempty"`
	Status     string `json:"status,omitempty"`
	Carts      int64  `json:"carts,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

func Log(fields Fields) {
	payload := map[string]any{
		"service":     fields.Service,
		"user_id":     fields.UserID,
		"order_id":    fields.OrderID,
		"item_id":     fields.ItemID,
		"event_id":    fields.EventID,
		"channel":     fields.Channel,
		"step":        fields.Step,
		"status":      fields.Status,
		"carts":       fields.Carts,
		"duration_ms": fields.DurationMS,
		"message":     fields.Message,
		"error":       fields.Error,
		"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("{\"service\":%q,\"status\":\"log_error\",\"error\":%q}", fields.Service, err.Error())
		return
	}
	log.Print(string(data))
}
