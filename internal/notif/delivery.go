package notif

import (
	"context"
	"log"
	"sync"

	"fabtrak/internal/common"
)

// DeliveryHub fans persisted notifications out to the delivery collaborators
// (push, email). Delivery is best-effort: observer failures are logged and
// never unwind the stored record.
type DeliveryHub struct {
	observers map[string]common.DeliveryObserver
	events    chan common.DeliveryEvent
	workers   int
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	wg        sync.WaitGroup
}

func NewDeliveryHub(workers, bufferSize int) *DeliveryHub {
	ctx, cancel := context.WithCancel(context.Background())

	hub := &DeliveryHub{
		observers: make(map[string]common.DeliveryObserver),
		events:    make(chan common.DeliveryEvent, bufferSize),
		workers:   workers,
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < workers; i++ {
		hub.wg.Add(1)
		go hub.processEvents()
	}

	return hub
}

func (h *DeliveryHub) Subscribe(observer common.DeliveryObserver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers[observer.Name()] = observer
	log.Printf("Delivery observer %s subscribed", observer.Name())
}

func (h *DeliveryHub) Unsubscribe(observer common.DeliveryObserver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.observers, observer.Name())
	log.Printf("Delivery observer %s unsubscribed", observer.Name())
}

func (h *DeliveryHub) Notify(event common.DeliveryEvent) {
	h.mu.RLock()
	observers := make([]common.DeliveryObserver, 0, len(h.observers))
	for _, obs := range h.observers {
		observers = append(observers, obs)
	}
	h.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			log.Printf("Delivery observer %s update failed: %v", observer.Name(), err)
		}
	}
}

func (h *DeliveryHub) NotifyAsync(event common.DeliveryEvent) {
	select {
	case h.events <- event:

	case <-h.ctx.Done():
		return
	default:
		log.Printf("Delivery channel full, dropping event for user %s", event.Notification.UserID)
	}
}

func (h *DeliveryHub) processEvents() {
	defer h.wg.Done()

	for {
		select {
		case event := <-h.events:
			h.Notify(event)
		case <-h.ctx.Done():
			return
		}
	}
}

func (h *DeliveryHub) Shutdown() {
	h.cancel()
	h.wg.Wait()
	log.Println("DeliveryHub shutdown complete")
}

// PushDeliveryObserver hands notifications to the browser push collaborator.
type PushDeliveryObserver struct {
	dispatcher common.PushDispatcher
}

func NewPushDeliveryObserver(dispatcher common.PushDispatcher) *PushDeliveryObserver {
	return &PushDeliveryObserver{
		dispatcher: dispatcher,
	}
}

func (p *PushDeliveryObserver) Name() string {
	return "push_observer"
}

// Update is a no-op when the environment has no push dispatcher; absence is a
// normal "not delivered" outcome, not an error.
func (p *PushDeliveryObserver) Update(event common.DeliveryEvent) error {
	if p.dispatcher == nil {
		return nil
	}

	n := event.Notification
	data := map[string]string{
		"type":    string(n.Type),
		"user_id": n.UserID,
	}
	if n.EntityType != nil {
		data["entity_type"] = string(*n.EntityType)
	}
	if n.EntityID != nil {
		data["entity_id"] = *n.EntityID
	}
	if n.ActionURL != nil {
		data["action_url"] = *n.ActionURL
	}

	if err := p.dispatcher.Show(n.Title, n.Message, data); err != nil {
		return err
	}

	log.Printf("Push notification shown for user %s", n.UserID)
	return nil
}

// EmailDeliveryObserver hands notifications to the email collaborator.
type EmailDeliveryObserver struct {
	dispatcher common.EmailDispatcher
}

func NewEmailDeliveryObserver(dispatcher common.EmailDispatcher) *EmailDeliveryObserver {
	return &EmailDeliveryObserver{
		dispatcher: dispatcher,
	}
}

func (e *EmailDeliveryObserver) Name() string {
	return "email_observer"
}

func (e *EmailDeliveryObserver) Update(event common.DeliveryEvent) error {
	n := event.Notification
	if err := e.dispatcher.Send(n.UserID, n); err != nil {
		return err
	}

	log.Printf("Email notification sent for user %s", n.UserID)
	return nil
}
