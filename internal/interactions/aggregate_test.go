package interactions

import (
	"context"
	"testing"
)

func TestAverageRatingNilWhenUnrated(t *testing.T) {
	db := openTestDB(t)
	service := newTestService(t, db)
	place := seedPlace(t, db, "Ainhoa", "ainhoa")

	avg, err := service.AverageRating(context.Background(), place.ID)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if avg != nil {
		t.Fatalf("a place with no ratings must average to nil, got %v", *avg)
	}
}

func TestAverageRatingMeanOfAllRows(t *testing.T) {
	db := openTestDB(t)
	service := newTestService(t, db)
	place := seedPlace(t, db, "Sare", "sare")

	for i, value := range []int{2, 4, 5} {
		key := anonKey("voter-" + string(rune('a'+i)))
		if _, err := service.SubmitRating(context.Background(), place.ID, key, value); err != nil {
			t.Fatalf("rating %d failed: %v", value, err)
		}
	}

	avg, err := service.AverageRating(context.Background(), place.ID)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if avg == nil {
		t.Fatalf("expected an average")
	}
	want := 11.0 / 3.0
	if *avg < want-0.0001 || *avg > want+0.0001 {
		t.Fatalf("unexpected average: %v", *avg)
	}
	if FormatAverage(*avg) != "3.7" {
		t.Fatalf("unexpected display form: %q", FormatAverage(*avg))
	}
}

func TestFormatAverageRoundsHalfUp(t *testing.T) {
	cases := map[float64]string{
		3.0:     "3.0",
		3.65:    "3.7",
		3.64999: "3.6",
		5.0:     "5.0",
	}
	for value, want := range cases {
		if got := FormatAverage(value); got != want {
			t.Fatalf("FormatAverage(%v) = %q, want %q", value, got, want)
		}
	}
}

func TestFavoriteCountTracksToggles(t *testing.T) {
	db := openTestDB(t)
	service := newTestService(t, db)
	place := seedPlace(t, db, "Itxassou", "itxassou")

	for _, session := range []string{"one", "two", "three"} {
		if _, err := service.ToggleFavorite(context.Background(), place.ID, anonKey(session)); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
	}
	if _, err := service.ToggleFavorite(context.Background(), place.ID, anonKey("two")); err != nil {
		t.Fatalf("untoggle failed: %v", err)
	}

	count, err := service.FavoriteCount(context.Background(), place.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 favorites, got %d", count)
	}
}

func TestListPlaceCommentsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	service := newTestService(t, db)
	place := seedPlace(t, db, "Guéthary", "guethary")

	if _, err := service.SubmitComment(context.Background(), place.ID, anonKey("early"), "Premier avis", ""); err != nil {
		t.Fatalf("first comment failed: %v", err)
	}
	if _, err := service.SubmitComment(context.Background(), place.ID, anonKey("late"), "Second avis", ""); err != nil {
		t.Fatalf("second comment failed: %v", err)
	}

	comments, err := service.ListPlaceComments(context.Background(), place.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Body != "Second avis" || comments[1].Body != "Premier avis" {
		t.Fatalf("unexpected order: %q then %q", comments[0].Body, comments[1].Body)
	}
}
