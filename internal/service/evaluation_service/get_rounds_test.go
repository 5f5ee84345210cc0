package evaluation_service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tcp_snm/arena/internal/arena_errors"
	"github.com/tcp_snm/arena/internal/database"
)

func TestListRoundsPagination(t *testing.T) {
	store := newFakeRoundStore()
	evaluationID := uuid.New()
	firstStart := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		roundID := uuid.New()
		start := firstStart.Add(time.Duration(i) * 24 * time.Hour)
		store.rounds[roundID] = database.EvaluationRound{
			ID:           roundID,
			EvaluationID: evaluationID,
			RoundStart:   start,
			RoundEnd:     start.Add(2 * time.Hour),
			Limits:       mustMarshalLimits(t, nil),
		}
	}

	request := GetAllRoundsRequest{EvaluationID: evaluationID, Limit: 3}
	first, err := listRounds(context.Background(), store, request)
	if err != nil {
		t.Fatalf("cannot list first page: %v", err)
	}
	if len(first.Rounds) != 3 {
		t.Fatalf("first page has %d rounds, want 3", len(first.Rounds))
	}
	if first.NextPageToken == "" {
		t.Fatal("first page must carry a next page token")
	}

	request.PageToken = first.NextPageToken
	second, err := listRounds(context.Background(), store, request)
	if err != nil {
		t.Fatalf("cannot list second page: %v", err)
	}
	if len(second.Rounds) != 1 {
		t.Fatalf("second page has %d rounds, want 1", len(second.Rounds))
	}
	if second.NextPageToken != "" {
		t.Errorf("second page must not carry a token, got %q", second.NextPageToken)
	}
	if !second.Rounds[0].RoundStart.Equal(firstStart.Add(3 * 24 * time.Hour)) {
		t.Errorf("second page starts at %v", second.Rounds[0].RoundStart)
	}
}

func TestListRoundsExactMultipleHasNoTrailingToken(t *testing.T) {
	store := newFakeRoundStore()
	evaluationID := uuid.New()
	firstStart := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		roundID := uuid.New()
		start := firstStart.Add(time.Duration(i) * 24 * time.Hour)
		store.rounds[roundID] = database.EvaluationRound{
			ID:           roundID,
			EvaluationID: evaluationID,
			RoundStart:   start,
			RoundEnd:     start.Add(2 * time.Hour),
			Limits:       mustMarshalLimits(t, nil),
		}
	}

	request := GetAllRoundsRequest{EvaluationID: evaluationID, Limit: 2}
	first, err := listRounds(context.Background(), store, request)
	if err != nil {
		t.Fatalf("cannot list first page: %v", err)
	}
	if first.NextPageToken == "" {
		t.Fatal("first page must carry a next page token")
	}

	request.PageToken = first.NextPageToken
	second, err := listRounds(context.Background(), store, request)
	if err != nil {
		t.Fatalf("cannot list second page: %v", err)
	}
	if len(second.Rounds) != 2 {
		t.Fatalf("second page has %d rounds, want 2", len(second.Rounds))
	}
	if second.NextPageToken != "" {
		t.Errorf("count divisible by limit must not leave a trailing token, got %q", second.NextPageToken)
	}
}

func TestPageTokenRoundTrip(t *testing.T) {
	for _, offset := range []int64{0, 1, 20, 4096} {
		token := encodePageToken(offset)
		decoded, err := decodePageToken(token)
		if err != nil {
			t.Errorf("cannot decode token for offset %d: %v", offset, err)
			continue
		}
		if decoded != offset {
			t.Errorf("offset %d round-tripped to %d", offset, decoded)
		}
	}
}

func TestDecodePageToken(t *testing.T) {
	offset, err := decodePageToken("")
	if err != nil || offset != 0 {
		t.Errorf("empty token must decode to offset 0, got %d, %v", offset, err)
	}

	for _, token := range []string{"not-base64!", "bm90LWEtbnVtYmVy", encodePageToken(-5)} {
		if _, err := decodePageToken(token); !errors.Is(err, arena_errors.ErrInvalidRequest) {
			t.Errorf("expected token %q to be rejected, got %v", token, err)
		}
	}
}
