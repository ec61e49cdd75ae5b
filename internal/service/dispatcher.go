package service

import (
	"log"
	"time"

	"contactbox/internal/models"
)

// Dispatcher drains a queue of freshly saved messages and sends the admin
// notification plus the sender confirmation for each one. Failures are
// logged and swallowed; the HTTP response never waits on this path.
type Dispatcher struct {
	notifier  Notifier
	ledger    NotificationLedger
	queue     chan models.Message
	stopChan  chan struct{}
	isRunning bool
}

func NewDispatcher(notifier Notifier, ledger NotificationLedger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		notifier: notifier,
		ledger:   ledger,
		queue:    make(chan models.Message, queueSize),
	}
}

// Enqueue hands a message off for email dispatch without blocking. When
// the queue is full the dispatch is dropped; notification is best-effort.
func (d *Dispatcher) Enqueue(msg models.Message) {
	select {
	case d.queue <- msg:
	default:
		log.Printf("Dispatch queue full, dropping notification for message %s", msg.ID)
	}
}

func (d *Dispatcher) Start() error {
	if d.isRunning {
		log.Println("Dispatcher is already running.")
		return nil
	}
	d.stopChan = make(chan struct{})
	d.isRunning = true
	go func() {
		log.Println("Email dispatcher started.")
		for {
			select {
			case <-d.stopChan:
				d.isRunning = false
				log.Println("Email dispatcher stopped.")
				return
			case msg := <-d.queue:
				d.process(msg)
			}
		}
	}()
	return nil
}

func (d *Dispatcher) Stop() error {
	if !d.isRunning {
		log.Println("Dispatcher is not running.")
		return nil
	}
	close(d.stopChan)
	return nil
}

func (d *Dispatcher) IsRunning() bool {
	return d.isRunning
}

func (d *Dispatcher) process(msg models.Message) {
	if err := d.notifier.SendNotification(msg.Name, msg.Email, msg.Message, msg.Fingerprint, msg.ID); err != nil {
		log.Printf("Failed to send notification email for message %s: %v", msg.ID, err)
	}
	if err := d.notifier.SendConfirmation(msg.Name, msg.Email, msg.ID); err != nil {
		log.Printf("Failed to send confirmation email for message %s: %v", msg.ID, err)
	}
	if d.ledger == nil {
		return
	}
	if err := d.ledger.StoreNotified(msg.ID, time.Now().UTC()); err != nil {
		log.Printf("Error recording notification for message %s: %v", msg.ID, err)
	}
}
