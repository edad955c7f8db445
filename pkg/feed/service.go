package feed

import (
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Manage websocket connection and call handleSample for each reading
func StartListener(host string, handleSample func(sample *ProductionSample)) {
	const (
		maxRetries     = 10
		baseRetryDelay = 2 * time.Second
		maxRetryDelay  = 60 * time.Second
	)

	// WebSocket server URL
	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}

	// Channel to handle interrupt signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	retryCount := 0

	for {
		select {
		case <-interrupt:
			log.Info("Interrupt received, shutting down...")
			return
		default:
			// Calculate retry delay with exponential backoff
			retryDelay := time.Duration(1<<retryCount) * baseRetryDelay
			if retryDelay > maxRetryDelay {
				retryDelay = maxRetryDelay
			}

			if retryCount > 0 {
				log.Infof("Retrying connection in %v... (attempt %d/%d)", retryDelay, retryCount+1, maxRetries)
				select {
				case <-time.After(retryDelay):
				case <-interrupt:
					log.Info("Interrupt received during retry wait, shutting down...")
					return
				}
			}

			log.Infof("Connecting to %s", u.String())

			c, _, err := newDialer().Dial(u.String(), nil)
			if err != nil {
				log.WithError(err).Warn("Connection failed")
				retryCount++
				if retryCount >= maxRetries {
					log.Errorf("Max retries (%d) reached. Giving up.", maxRetries)
					return
				}
				continue
			}

			log.Info("Connected! Accepting production samples.")

			// Reset retry count on successful connection
			retryCount = 0

			connectionBroken := handleConnection(c, interrupt, handleSample)

			c.Close()

			if !connectionBroken {
				// Clean shutdown requested
				return
			}

			log.Warn("Connection lost, will retry...")
		}
	}
}

// newDialer copies the default dialer so the handshake timeout never
// leaks into the package-global default.
func newDialer() *websocket.Dialer {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second
	return &dialer
}

func handleConnection(
	c *websocket.Conn,
	interrupt chan os.Signal,
	handleSample func(sample *ProductionSample),
) bool {
	done := make(chan struct{})

	// Set read deadline to detect dead connections
	// Expect message every second
	c.SetReadDeadline(time.Now().Add(10 * time.Second))

	// Goroutine to read messages
	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.WithError(err).Warn("WebSocket error")
				} else {
					log.WithError(err).Info("Connection closed")
				}
				return
			}

			// Reset read deadline on successful message
			c.SetReadDeadline(time.Now().Add(10 * time.Second))

			// We only expect ProductionSample messages
			if messageType == websocket.TextMessage {
				if sample := SampleFromJsonBytes(message); sample != nil {
					handleSample(sample)
				} else {
					log.Warnf("Failed to parse production sample: %s", string(message))
				}
			} else {
				log.Warnf("Received unexpected message type: %d", messageType)
			}
		}
	}()

	// Goroutine to send periodic pings to keep connection alive
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := c.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
					log.WithError(err).Warn("Failed to send ping")
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Wait for connection to break or interrupt signal
	select {
	case <-done:
		// Connection broke
		return true
	case <-interrupt:
		log.Info("Interrupt received, closing connection...")

		// Send close message
		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			log.WithError(err).Warn("Error sending close message")
		}

		// Wait for close confirmation or timeout
		select {
		case <-done:
		case <-time.After(time.Second):
		}

		// Clean shutdown
		return false
	}
}
