// Package eventbus publica eventos de inventario a RabbitMQ.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"github.com/tu-usuario/almacen-pro/internal/application/alerts"
	"github.com/tu-usuario/almacen-pro/internal/application/inventory"
	"github.com/tu-usuario/almacen-pro/pkg/logger"
)

// Ensure Publisher implements both event ports.
var _ inventory.EventPublisher = (*Publisher)(nil)
var _ alerts.AlertPublisher = (*Publisher)(nil)

const (
	publishTimeout  = 5 * time.Second
	reconnectDelay  = 5 * time.Second
	exchangeType    = "topic"
	routingMovement = "inventory.movement.recorded"
	routingLowStock = "inventory.stock.low"
)

// amqpChannel es el subconjunto de *amqp.Channel que usa el camino de publicación.
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher publica eventos en un exchange topic con canal en modo confirm.
// Mantiene una goroutine de reconexión: si la conexión se cae, los publish
// fallan con error (el caller loguea y sigue) hasta que se restablece.
type Publisher struct {
	url      string
	exchange string
	log      *logger.Logger

	// pubMu serializa publish completo (envío + espera del confirm): el canal de
	// confirms es uno solo, y sin serialización un caller concurrente podría
	// consumir la confirmación de otro.
	pubMu sync.Mutex

	mu            sync.Mutex
	conn          *amqp.Connection
	channel       amqpChannel
	notifyConfirm chan amqp.Confirmation
	notifyClose   chan *amqp.Error
	ready         bool
	closed        bool
}

// NewPublisher conecta a RabbitMQ y declara el exchange. Si la conexión inicial
// falla devuelve el publisher igualmente (con error) y sigue reintentando al fondo.
func NewPublisher(url, exchange string, log *logger.Logger) (*Publisher, error) {
	p := &Publisher{url: url, exchange: exchange, log: log.Component("eventbus")}
	err := p.connect()
	go p.reconnectLoop()
	if err != nil {
		return p, fmt.Errorf("conexión inicial a RabbitMQ: %w (se reintenta en segundo plano)", err)
	}
	return p, nil
}

func (p *Publisher) connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("abrir canal: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return fmt.Errorf("modo confirm: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, exchangeType, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declarar exchange %s: %w", p.exchange, err)
	}

	p.conn = conn
	p.channel = ch
	p.notifyConfirm = make(chan amqp.Confirmation, 1)
	ch.NotifyPublish(p.notifyConfirm)
	p.notifyClose = make(chan *amqp.Error, 1)
	conn.NotifyClose(p.notifyClose)
	p.ready = true

	p.log.Info().Str("exchange", p.exchange).Msg("conectado a RabbitMQ")
	return nil
}

// reconnectLoop espera el cierre de la conexión y reintenta hasta Close().
func (p *Publisher) reconnectLoop() {
	for {
		p.mu.Lock()
		closed, notify := p.closed, p.notifyClose
		p.mu.Unlock()
		if closed {
			return
		}
		if notify == nil {
			time.Sleep(reconnectDelay)
		} else if _, ok := <-notify; !ok {
			// Cierre limpio del canal de notificación.
		}

		p.mu.Lock()
		p.ready = false
		closed = p.closed
		p.mu.Unlock()
		if closed {
			return
		}

		p.log.Warn().Msg("conexión RabbitMQ perdida, reintentando")
		for {
			p.mu.Lock()
			closed = p.closed
			p.mu.Unlock()
			if closed {
				return
			}
			if err := p.connect(); err == nil {
				break
			}
			time.Sleep(reconnectDelay)
		}
	}
}

// publish serializa el payload y lo publica esperando el confirm del broker.
// Un publish a la vez: ver pubMu.
func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	p.pubMu.Lock()
	defer p.pubMu.Unlock()

	p.mu.Lock()
	if !p.ready {
		p.mu.Unlock()
		return errors.New("publisher no conectado")
	}
	ch, confirms := p.channel, p.notifyConfirm
	p.mu.Unlock()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal evento: %w", err)
	}

	err = ch.Publish(p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}

	select {
	case confirm := <-confirms:
		if confirm.Ack {
			return nil
		}
		return errors.New("evento publicado pero no confirmado")
	case <-time.After(publishTimeout):
		return errors.New("timeout esperando confirmación del broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishMovementRecorded publica el evento de movimiento confirmado.
func (p *Publisher) PublishMovementRecorded(ctx context.Context, evt inventory.MovementRecordedEvent) error {
	return p.publish(ctx, routingMovement, evt)
}

// PublishLowStockAlert publica el evento de alerta de stock bajo.
func (p *Publisher) PublishLowStockAlert(ctx context.Context, evt alerts.LowStockAlertEvent) error {
	return p.publish(ctx, routingLowStock, evt)
}

// Close cierra la conexión y detiene la reconexión.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.ready = false
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
