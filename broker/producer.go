package broker

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"
)

var conn *nats.Conn

// InitProducer connects to the NATS server. Event publishing is best
// effort: a failed connection disables it without affecting the API.
func InitProducer(url string) error {
	var err error
	conn, err = nats.Connect(url,
		nats.Name("quill-api"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return err
	}
	log.Printf("NATS producer connected to %s", url)
	return nil
}

// Publish sends an entity event. Called after the owning transaction has
// committed; failures are logged and swallowed.
func Publish(subject, actorID string, data map[string]interface{}) {
	if conn == nil {
		return
	}

	payload, err := json.Marshal(Event{Subject: subject, ActorID: actorID, Data: data})
	if err != nil {
		log.Printf("Failed to marshal event %s: %v", subject, err)
		return
	}

	if err := conn.Publish(subject, payload); err != nil {
		log.Printf("Failed to publish event %s: %v", subject, err)
	}
}

func CloseProducer() {
	if conn != nil {
		conn.Drain()
		conn.Close()
		conn = nil
	}
}
