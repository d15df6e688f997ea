package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/seatwise/reservation-service/internal/domain"
)

// RedisHoldStore keeps the volatile hold state. Every hold owns one record key
// plus one lock key per seat, all sharing the hold's TTL, so physical expiry is
// enforced by Redis itself. The per-showing seat set and the showing worklist
// are indexes only; they may lag behind and are pruned lazily.
type RedisHoldStore struct {
	client redis.UniversalClient
}

func NewRedisHoldStore(client redis.UniversalClient) *RedisHoldStore {
	return &RedisHoldStore{client: client}
}

const showingsSetKey = "seat_hold_showings"

func holdKey(holdID string) string {
	return fmt.Sprintf("hold:%s", holdID)
}

func seatLockKey(showingID int, seatCode string) string {
	return fmt.Sprintf("seat_hold:%d:%s", showingID, seatCode)
}

func seatSetKey(showingID int) string {
	return fmt.Sprintf("seat_holds:%d", showingID)
}

// acquireHoldScript claims every requested seat or none of them. A seat counts
// as free when it has no lock, or when its lock belongs to a hold of the same
// holder (idempotent re-select); in the latter case the lock moves to the new
// hold, which keeps the lock key the single owner record for a seat.
var acquireHoldScript = redis.NewScript(`
    -- KEYS = [hold record key, seat index set key, showing worklist key, seat lock keys...]
    -- ARGV = [holdId, holderId, ttlMillis, holdJson, showingId, seat codes...]

    local conflicts = {}

    for i = 4, #KEYS do
        local owner = redis.call("GET", KEYS[i])
        if owner then
            local holder = false
            local rec = redis.call("GET", "hold:" .. owner)
            if rec then
                holder = cjson.decode(rec)["holderId"]
            end
            if holder ~= ARGV[2] then
                table.insert(conflicts, ARGV[i + 2])
            end
        end
    end

    if #conflicts > 0 then
        return conflicts
    end

    for i = 4, #KEYS do
        redis.call("SET", KEYS[i], ARGV[1], "PX", ARGV[3])
    end

    redis.call("SET", KEYS[1], ARGV[4], "PX", ARGV[3])

    for i = 6, #ARGV do
        redis.call("SADD", KEYS[2], ARGV[i])
    end

    redis.call("SADD", KEYS[3], ARGV[5])

    return {}
`)

func (r *RedisHoldStore) Create(ctx context.Context, hold domain.Hold) error {
	ttl := time.Until(hold.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("hold %s expires in the past", hold.ID)
	}

	holdBytes, err := json.Marshal(hold)
	if err != nil {
		return fmt.Errorf("failed to marshal hold: %w", err)
	}

	keys := make([]string, 0, len(hold.SeatCodes)+3)
	keys = append(keys, holdKey(hold.ID), seatSetKey(hold.ShowingID), showingsSetKey)

	args := make([]interface{}, 0, len(hold.SeatCodes)+5)
	args = append(args, hold.ID, hold.HolderID, ttl.Milliseconds(), holdBytes, hold.ShowingID)

	for _, seatCode := range hold.SeatCodes {
		keys = append(keys, seatLockKey(hold.ShowingID, seatCode))
		args = append(args, seatCode)
	}

	result, err := acquireHoldScript.Run(ctx, r.client, keys, args...).Result()
	if err != nil {
		return fmt.Errorf("failed to run acquireHoldScript: %w", err)
	}

	conflicts, ok := result.([]interface{})
	if !ok {
		return fmt.Errorf("unexpected acquireHoldScript reply %T", result)
	}

	if len(conflicts) > 0 {
		seatCodes := make([]string, 0, len(conflicts))
		for _, c := range conflicts {
			seatCodes = append(seatCodes, fmt.Sprint(c))
		}

		return domain.NewSeatConflictError(domain.ErrSeatAlreadyHeld, seatCodes)
	}

	return nil
}

func (r *RedisHoldStore) Get(ctx context.Context, holdID string) (*domain.Hold, error) {
	holdBytes, err := r.client.Get(ctx, holdKey(holdID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrHoldNotFound
		}

		return nil, err
	}

	var hold domain.Hold

	err = json.Unmarshal(holdBytes, &hold)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal hold %s: %w", holdID, err)
	}

	return &hold, nil
}

// verifyHoldScript returns the hold record only while the hold still owns all
// of its seat locks. A hold whose seats were taken over by a newer hold of the
// same holder still has a record, but it no longer confers any claim.
var verifyHoldScript = redis.NewScript(`
    -- KEYS = [hold record key]
    -- ARGV = [holdId]

    local rec = redis.call("GET", KEYS[1])
    if not rec then
        return redis.error_reply("hold not found")
    end

    local hold = cjson.decode(rec)

    for _, seat in ipairs(hold["seatCodes"]) do
        if redis.call("GET", "seat_hold:" .. hold["showingId"] .. ":" .. seat) ~= ARGV[1] then
            return redis.error_reply("hold not active")
        end
    end

    return rec
`)

func (r *RedisHoldStore) GetLive(ctx context.Context, holdID string) (*domain.Hold, error) {
	result, err := verifyHoldScript.Run(ctx, r.client, []string{holdKey(holdID)}, holdID).Text()
	if err != nil {
		switch {
		case redis.HasErrorPrefix(err, "hold not found"):
			return nil, domain.ErrHoldNotFound
		case redis.HasErrorPrefix(err, "hold not active"):
			return nil, domain.ErrHoldExpired
		}

		return nil, fmt.Errorf("failed to run verifyHoldScript: %w", err)
	}

	var hold domain.Hold

	err = json.Unmarshal([]byte(result), &hold)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal hold %s: %w", holdID, err)
	}

	return &hold, nil
}

// renewHoldScript extends the hold record and every seat lock in one step. It
// refuses when the record is gone or when any seat lock no longer belongs to
// this hold, so a renewal can never resurrect seats another caller acquired.
var renewHoldScript = redis.NewScript(`
    -- KEYS = [hold record key]
    -- ARGV = [holdId, ttlMillis, newExpiresAt]

    local rec = redis.call("GET", KEYS[1])
    if not rec then
        return redis.error_reply("hold not found")
    end

    local hold = cjson.decode(rec)

    for _, seat in ipairs(hold["seatCodes"]) do
        if redis.call("GET", "seat_hold:" .. hold["showingId"] .. ":" .. seat) ~= ARGV[1] then
            return redis.error_reply("hold not active")
        end
    end

    hold["expiresAt"] = ARGV[3]

    for _, seat in ipairs(hold["seatCodes"]) do
        redis.call("SET", "seat_hold:" .. hold["showingId"] .. ":" .. seat, ARGV[1], "PX", ARGV[2])
    end

    redis.call("SET", KEYS[1], cjson.encode(hold), "PX", ARGV[2])

    return cjson.encode(hold)
`)

func (r *RedisHoldStore) Renew(ctx context.Context, holdID string, expiresAt time.Time) (*domain.Hold, error) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil, fmt.Errorf("new expiry for hold %s is in the past", holdID)
	}

	result, err := renewHoldScript.Run(
		ctx,
		r.client,
		[]string{holdKey(holdID)},
		holdID,
		ttl.Milliseconds(),
		expiresAt.UTC().Format(time.RFC3339Nano),
	).Text()

	if err != nil {
		switch {
		case redis.HasErrorPrefix(err, "hold not found"):
			return nil, domain.ErrHoldNotFound
		case redis.HasErrorPrefix(err, "hold not active"):
			return nil, domain.ErrHoldExpired
		}

		return nil, fmt.Errorf("failed to run renewHoldScript: %w", err)
	}

	var hold domain.Hold

	err = json.Unmarshal([]byte(result), &hold)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal renewed hold %s: %w", holdID, err)
	}

	return &hold, nil
}

// releaseHoldScript drops the hold record and guard-deletes its seat locks:
// a lock is only removed when it still points at this hold.
var releaseHoldScript = redis.NewScript(`
    -- KEYS = [hold record key]
    -- ARGV = [holdId]

    local rec = redis.call("GET", KEYS[1])
    if not rec then
        return 0
    end

    local hold = cjson.decode(rec)
    local setKey = "seat_holds:" .. hold["showingId"]

    for _, seat in ipairs(hold["seatCodes"]) do
        local lockKey = "seat_hold:" .. hold["showingId"] .. ":" .. seat
        if redis.call("GET", lockKey) == ARGV[1] then
            redis.call("DEL", lockKey)
            redis.call("SREM", setKey, seat)
        end
    end

    redis.call("DEL", KEYS[1])

    return 1
`)

func (r *RedisHoldStore) Remove(ctx context.Context, holdID string) error {
	err := releaseHoldScript.Run(ctx, r.client, []string{holdKey(holdID)}, holdID).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to run releaseHoldScript: %w", err)
	}

	return nil
}

// heldSeatsScript walks the per-showing seat index, prunes entries whose lock
// has expired and returns the seat codes that are still claimed.
var heldSeatsScript = redis.NewScript(`
    -- KEYS = [seat index set key]
    -- ARGV = [showingId]

    local setKey = KEYS[1]
    local showingId = ARGV[1]
    local cursor = "0"
    local batchSize = 100
    local expiredSeats = {}
    local validSeats = {}

    repeat
        local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
        cursor = result[1]
        local seatCodes = result[2]

        for _, seatCode in ipairs(seatCodes) do
            if redis.call("EXISTS", "seat_hold:" .. showingId .. ":" .. seatCode) == 0 then
                table.insert(expiredSeats, seatCode)
            else
                table.insert(validSeats, seatCode)
            end
        end
    until cursor == "0"

    if #expiredSeats > 0 then
        redis.call("SREM", setKey, unpack(expiredSeats))
    end

    return validSeats
`)

func (r *RedisHoldStore) HeldSeats(ctx context.Context, showingID int) ([]string, error) {
	cmd := heldSeatsScript.Run(ctx, r.client, []string{seatSetKey(showingID)}, showingID)

	seatCodes, err := cmd.StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to run heldSeatsScript: %w", err)
	}

	return seatCodes, nil
}

func (r *RedisHoldStore) HoldForSeat(ctx context.Context, showingID int, seatCode string) (*domain.Hold, error) {
	holdID, err := r.client.Get(ctx, seatLockKey(showingID, seatCode)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrHoldNotFound
		}

		return nil, err
	}

	return r.Get(ctx, holdID)
}

// reapShowingScript is the sweep variant of heldSeatsScript: it additionally
// drops the showing from the worklist once nothing is claimed, and reports how
// many stale index entries it removed.
var reapShowingScript = redis.NewScript(`
    -- KEYS = [seat index set key, showing worklist key]
    -- ARGV = [showingId]

    local setKey = KEYS[1]
    local showingId = ARGV[1]
    local cursor = "0"
    local batchSize = 100
    local expiredSeats = {}
    local validCount = 0

    repeat
        local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
        cursor = result[1]
        local seatCodes = result[2]

        for _, seatCode in ipairs(seatCodes) do
            if redis.call("EXISTS", "seat_hold:" .. showingId .. ":" .. seatCode) == 0 then
                table.insert(expiredSeats, seatCode)
            else
                validCount = validCount + 1
            end
        end
    until cursor == "0"

    if #expiredSeats > 0 then
        redis.call("SREM", setKey, unpack(expiredSeats))
    end

    if validCount == 0 then
        redis.call("SREM", KEYS[2], showingId)
    end

    return #expiredSeats
`)

func (r *RedisHoldStore) ReapExpired(ctx context.Context) (int, error) {
	showingIDs, err := r.client.SMembers(ctx, showingsSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list showings with holds: %w", err)
	}

	reaped := 0

	for _, showingID := range showingIDs {
		keys := []string{fmt.Sprintf("seat_holds:%s", showingID), showingsSetKey}

		n, err := reapShowingScript.Run(ctx, r.client, keys, showingID).Int()
		if err != nil {
			return reaped, fmt.Errorf("failed to reap showing %s: %w", showingID, err)
		}

		reaped += n
	}

	return reaped, nil
}
