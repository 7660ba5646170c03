package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventSubject is where events of a kind are published, e.g.
// "surety.oracle.request".
func EventSubject(kind string) string {
	return SubjectPrefix + "." + kind
}

// TransferSubject carries payout transfer instructions.
const TransferSubject = SubjectPrefix + ".payout.transfer"

// EventPublisher forwards engine events to NATS. Oracles subscribe to
// surety.oracle.request to learn which rounds they can answer.
type EventPublisher struct {
	Client *Client
}

func (p EventPublisher) Publish(ctx context.Context, events []models.Event) error {
	for _, ev := range events {
		if err := p.Client.Publish(ctx, EventSubject(ev.Kind), ev); err != nil {
			return fmt.Errorf("publish %s: %w", ev.Kind, err)
		}
	}
	return nil
}

// TransferInstruction asks the payment rail to move funds to a passenger.
type TransferInstruction struct {
	ID        string           `json:"id"`
	Passenger domain.Principal `json:"passenger"`
	Amount    decimal.Decimal  `json:"amount"`
	IssuedAt  time.Time        `json:"issuedAt"`
}

// TransferAck is the payment rail's reply when acknowledgements are on.
type TransferAck struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Transferrer releases payouts by publishing transfer instructions. With
// RequireAck it waits for the rail to confirm; otherwise delivery to the
// server is enough.
type Transferrer struct {
	Client     *Client
	RequireAck bool
	Timeout    time.Duration
}

func (t Transferrer) Transfer(ctx context.Context, passenger domain.Principal, amount decimal.Decimal) error {
	instr := TransferInstruction{
		ID:        uuid.NewString(),
		Passenger: passenger,
		Amount:    amount,
		IssuedAt:  time.Now().UTC(),
	}

	if !t.RequireAck {
		if err := t.Client.Publish(ctx, TransferSubject, instr); err != nil {
			return err
		}
		return t.Client.Flush()
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := t.Client.Request(reqCtx, TransferSubject, instr)
	if err != nil {
		return fmt.Errorf("transfer %s: %w", instr.ID, err)
	}
	var ack TransferAck
	if err := json.Unmarshal(msg.Data, &ack); err != nil {
		return fmt.Errorf("transfer %s: bad ack: %w", instr.ID, err)
	}
	if !ack.OK {
		return fmt.Errorf("transfer %s rejected: %s", instr.ID, ack.Error)
	}
	return nil
}
