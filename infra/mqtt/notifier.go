package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/jpi-tools/schedule-export/core/metrics"
	"github.com/jpi-tools/schedule-export/infra/logger"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Summary is the JSON payload published after each export.
type Summary struct {
	RunID        string         `json:"run_id"`
	Timestamp    int64          `json:"timestamp"`
	DurationMS   int64          `json:"duration_ms"`
	Success      bool           `json:"success"`
	Error        string         `json:"error,omitempty"`
	Format       string         `json:"format,omitempty"`
	Path         string         `json:"path,omitempty"`
	Machines     int            `json:"machines"`
	Jobs         int            `json:"jobs"`
	Tasks        int            `json:"tasks"`
	ChartedCells int            `json:"charted_cells"`
	OffDutyCells int            `json:"off_duty_cells"`
	Utilization  float64        `json:"utilization"`
	MachineHours map[string]int `json:"machine_hours,omitempty"`
}

// NewSummary converts an export event into its published form.
func NewSummary(ev metrics.ExportEvent) Summary {
	return Summary{
		RunID:        ev.RunID,
		Timestamp:    ev.Time.UnixMilli(),
		DurationMS:   ev.Duration.Milliseconds(),
		Success:      ev.Success,
		Error:        ev.Error,
		Format:       ev.Format,
		Path:         ev.Path,
		Machines:     ev.Machines,
		Jobs:         ev.Jobs,
		Tasks:        ev.Tasks,
		ChartedCells: ev.ChartedCells,
		OffDutyCells: ev.OffDutyCells,
		Utilization:  ev.Load.Utilization,
		MachineHours: ev.MachineHours,
	}
}

// Notifier publishes export summaries to an MQTT topic. It implements
// metrics.MetricsSink so it can be configured like any other sink.
type Notifier struct {
	mu  sync.Mutex
	cli pahoClient
	cfg Config
	log logger.Logger
}

// NewNotifier connects to the broker described by cfg.
func NewNotifier(cfg Config) (*Notifier, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mqtt: %w", err)
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_notifier")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	return &Notifier{cli: c, cfg: cfg, log: log}, nil
}

// Publish sends payload to the configured topic, retrying with exponential
// backoff up to MaxRetries times.
func (n *Notifier) Publish(payload []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	var publishErr error
	for attempt := 0; attempt <= n.cfg.MaxRetries; attempt++ {
		token := n.cli.Publish(n.cfg.Topic, n.cfg.QoS, n.cfg.Retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			n.log.Debugf("published %d bytes to %s", len(payload), n.cfg.Topic)
			return nil
		}
		n.log.Warnf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < n.cfg.MaxRetries {
			time.Sleep(n.cfg.backoff() * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish to %s: %w", n.cfg.Topic, publishErr)
}

// RecordExport publishes the summary of ev.
func (n *Notifier) RecordExport(ev metrics.ExportEvent) error {
	payload, err := json.Marshal(NewSummary(ev))
	if err != nil {
		return err
	}
	return n.Publish(payload)
}

// Close gracefully closes the MQTT connection.
func (n *Notifier) Close() error {
	if n.cli != nil && n.cli.IsConnected() {
		n.cli.Disconnect(250)
	}
	return nil
}
