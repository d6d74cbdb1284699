// Package availability mirrors seat counters into Redis for fast reads.
package availability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"ms-conference/internal/models"
)

const keyPrefix = "seat_availability:"

type Counts struct {
	Quantity          int `json:"quantity"`
	AvailableQuantity int `json:"available_quantity"`
}

type Redis struct {
	Client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{Client: client}
}

func key(conferenceID string) string {
	return keyPrefix + conferenceID
}

// Refresh replaces the conference hash with the given seat types in one MULTI block.
func (r *Redis) Refresh(ctx context.Context, conferenceID string, seatTypes []models.SeatType) error {
	fields := make(map[string]interface{}, len(seatTypes))
	for _, st := range seatTypes {
		value, err := json.Marshal(Counts{Quantity: st.Quantity, AvailableQuantity: st.AvailableQuantity})
		if err != nil {
			return err
		}
		fields[st.ID] = value
	}

	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key(conferenceID))
		if len(fields) > 0 {
			pipe.HSet(ctx, key(conferenceID), fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("refresh availability of %s: %w", conferenceID, err)
	}
	return nil
}

// Get returns the cached counters of a conference keyed by seat type ID.
func (r *Redis) Get(ctx context.Context, conferenceID string) (map[string]Counts, error) {
	raw, err := r.Client.HGetAll(ctx, key(conferenceID)).Result()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]Counts, len(raw))
	for seatTypeID, value := range raw {
		var c Counts
		if err := json.Unmarshal([]byte(value), &c); err != nil {
			return nil, fmt.Errorf("decode availability of %s: %w", seatTypeID, err)
		}
		counts[seatTypeID] = c
	}
	return counts, nil
}
