package inverter

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	probing "github.com/prometheus-community/pro-bing"
	"github.com/solarwatch/solar_notifier/pkg/config"
)

var (
	ErrModbusNotConfigured = fmt.Errorf("modbus not configured") // may be intended
	ErrModbusReadFailed    = fmt.Errorf("modbus read failed")
	ErrModbusNotConnected  = fmt.Errorf("modbus not connected")
)

// Accumulated energy yield register on the inverter, U32 with gain 100
// (value / 100 = kWh)
const (
	yieldRegister      = 32106
	yieldRegisterCount = 2
	yieldGain          = 100
)

// Poller reads the inverter's accumulated production over Modbus TCP.
// Reads are cached briefly to avoid spamming the poor inverter.
type Poller struct {
	cfg config.CollectorConfig

	mu           sync.Mutex
	lastYieldKwh float64
	lastReadTime time.Time
}

func NewPoller(cfg config.CollectorConfig) *Poller {
	return &Poller{cfg: cfg}
}

// IsConfigured checks if the modbus configuration is set.
// This feature is optional, empty values as config are acceptable.
func (p *Poller) IsConfigured() bool {
	return p.cfg.SolarInverterIp != "" &&
		p.cfg.SolarInverterModbusPort != 0 &&
		p.cfg.WlanConnectionId != ""
}

// ReadAccumulatedYieldKwh returns the inverter's lifetime production
// standing in kWh.
func (p *Poller) ReadAccumulatedYieldKwh() (float64, error) {
	if !p.IsConfigured() {
		return 0, ErrModbusNotConfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastReadTime.After(time.Now().Add(-10 * time.Second)) {
		return p.lastYieldKwh, nil
	}

	const maxRetries = 3
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Try reconnecting on retry attempts
			if err := p.tryReconnect(); err != nil {
				lastErr = fmt.Errorf("reconnect failed on attempt %d: %w", attempt+1, err)
				continue
			}
		}

		// Ping check before attempting modbus connection
		if ok, _, err := ping(p.cfg.SolarInverterIp); !ok || err != nil {
			lastErr = fmt.Errorf("ping failed on attempt %d: %w", attempt+1, err)
			if attempt < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
			continue
		}

		handler := modbus.NewTCPClientHandler(
			fmt.Sprintf("%s:%d", p.cfg.SolarInverterIp, p.cfg.SolarInverterModbusPort))
		handler.Timeout = 10 * time.Second
		handler.SlaveId = 0

		if err := handler.Connect(); err != nil {
			lastErr = fmt.Errorf("connection failed on attempt %d: %w", attempt+1, err)
			handler.Close()
			if attempt < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
			continue
		}

		// The 2s delay after connecting causes everything to not implode as much
		time.Sleep(2 * time.Second)
		client := modbus.NewClient(handler)

		result, err := client.ReadHoldingRegisters(yieldRegister, yieldRegisterCount)
		handler.Close()

		if err != nil {
			lastErr = fmt.Errorf("read yield failed on attempt %d: %w", attempt+1, err)
			if attempt < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
			continue
		}

		raw := uint32(result[0])<<24 | uint32(result[1])<<16 | uint32(result[2])<<8 | uint32(result[3])
		yieldKwh := float64(raw) / yieldGain
		p.lastYieldKwh = yieldKwh
		p.lastReadTime = time.Now()
		return yieldKwh, nil
	}

	return 0, errors.Join(ErrModbusReadFailed, lastErr)
}

func (p *Poller) tryReconnect() error {
	if !p.IsConfigured() {
		return ErrModbusNotConfigured
	}

	// Check if already connected
	ok, _, err := ping(p.cfg.SolarInverterIp)
	if err != nil {
		return err
	}
	if ok {
		return nil // Already connected, no need to reconnect
	}

	// Try reconnecting to wifi
	cmd := exec.Command("nmcli", "connection", "up", p.cfg.WlanConnectionId)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to bring up wifi connection: %w", err)
	}

	// Wait a bit for the connection to establish
	time.Sleep(5 * time.Second)

	// Check connection again
	ok, _, err = ping(p.cfg.SolarInverterIp)
	if err != nil {
		return err
	}
	if !ok {
		return ErrModbusNotConnected
	}
	return nil
}

func ping(host string) (bool, time.Duration, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return false, 0, err
	}

	pinger.Count = 1
	pinger.Timeout = 2 * time.Second
	pinger.SetPrivileged(false) // UDP-based, no root needed

	err = pinger.Run()
	if err != nil {
		return false, 0, err
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		return true, stats.AvgRtt, nil
	}

	return false, 0, fmt.Errorf("no response")
}
