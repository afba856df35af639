// Package telemetry publishes aggregate occupancy numbers to an MQTT
// broker for downstream consumers.
package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"parkwatch/internal/occupancy"
)

// Publisher sends one occupancy message per processed frame.
type Publisher struct {
	client mqtt.Client
	topic  string
	lot    string
}

type occupancyMessage struct {
	Lot              string    `json:"lot"`
	FrameIndex       int64     `json:"frame_index"`
	Timestamp        time.Time `json:"timestamp"`
	FreeCount        int       `json:"free_count"`
	OccupiedCount    int       `json:"occupied_count"`
	OccupancyPercent float64   `json:"occupancy_percent"`
}

// NewPublisher connects to the broker and returns a ready publisher.
// Topic pattern: parkwatch/<lot>/occupancy.
func NewPublisher(broker, clientID, lotName string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}

	return &Publisher{
		client: client,
		topic:  fmt.Sprintf("parkwatch/%s/occupancy", lotName),
		lot:    lotName,
	}, nil
}

// Publish sends the report's aggregate numbers as JSON, QoS 0.
func (p *Publisher) Publish(report *occupancy.FrameReport) error {
	msg := occupancyMessage{
		Lot:              p.lot,
		FrameIndex:       report.FrameIndex,
		Timestamp:        report.Timestamp,
		FreeCount:        report.FreeCount,
		OccupiedCount:    report.OccupiedCount,
		OccupancyPercent: report.OccupancyPercent,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal occupancy message: %w", err)
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
