package storage

import (
	"errors"
	"io"
	"lingoquest/models"
	"log/slog"
	"testing"
)

func testProvider(t *testing.T) FullRepo {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider, err := NewProviderSQL(":memory:", logger)
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	if err := provider.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return provider
}

func TestLevels(t *testing.T) {
	provider := testProvider(t)
	exists, err := provider.LevelExists(1)
	if err != nil {
		t.Fatalf("failed to check level: %v", err)
	}
	if exists {
		t.Error("expected no level yet")
	}
	level, err := provider.CreateLevel("A1")
	if err != nil {
		t.Fatalf("failed to create level: %v", err)
	}
	exists, err = provider.LevelExists(level.ID)
	if err != nil {
		t.Fatalf("failed to check level: %v", err)
	}
	if !exists {
		t.Error("expected created level to exist")
	}
}

func TestWordUniqueness(t *testing.T) {
	provider := testProvider(t)
	first, err := provider.CreateWord(&models.Word{Value: "tea"})
	if err != nil {
		t.Fatalf("failed to create word: %v", err)
	}
	_, err = provider.CreateWord(&models.Word{Value: "tea"})
	if !errors.Is(err, models.ErrDuplicateContent) {
		t.Fatalf("expected ErrDuplicateContent, got %v", err)
	}
	// the losing caller re-reads the winning row
	again, err := provider.WordByValue("tea")
	if err != nil {
		t.Fatalf("failed to re-read word: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("expected id %d, got %d", first.ID, again.ID)
	}
	if _, err := provider.WordByValue("nope"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSentenceWordOrdering(t *testing.T) {
	provider := testProvider(t)
	values := []string{"I", "like", "tea"}
	wordIDs := make([]int64, len(values))
	for i, v := range values {
		w, err := provider.CreateWord(&models.Word{Value: v})
		if err != nil {
			t.Fatalf("failed to create word %q: %v", v, err)
		}
		wordIDs[i] = w.ID
	}
	sentence, err := provider.CreateSentence(&models.Sentence{Value: "I like tea"})
	if err != nil {
		t.Fatalf("failed to create sentence: %v", err)
	}
	// link in scrambled creation order; pos decides read-back order
	for _, i := range []int{2, 0, 1} {
		link := &models.SentenceWord{SentenceID: sentence.ID, WordID: wordIDs[i], Pos: i}
		if err := provider.CreateSentenceWord(link); err != nil {
			t.Fatalf("failed to link word: %v", err)
		}
	}
	words, err := provider.SentenceWordsOrdered(sentence.ID)
	if err != nil {
		t.Fatalf("failed to read sentence words: %v", err)
	}
	if len(words) != len(values) {
		t.Fatalf("expected %d words, got %d", len(values), len(words))
	}
	for i, w := range words {
		if w.Value != values[i] {
			t.Errorf("pos %d: expected %q, got %q", i, values[i], w.Value)
		}
	}
	// positions are unique per sentence
	dup := &models.SentenceWord{SentenceID: sentence.ID, WordID: wordIDs[0], Pos: 1}
	if err := provider.CreateSentenceWord(dup); !errors.Is(err, models.ErrDuplicateContent) {
		t.Fatalf("expected ErrDuplicateContent on pos clash, got %v", err)
	}
}

func TestDistractorSet(t *testing.T) {
	provider := testProvider(t)
	w, err := provider.CreateWord(&models.Word{Value: "coffee"})
	if err != nil {
		t.Fatalf("failed to create word: %v", err)
	}
	set, err := provider.CreateDistractorSet()
	if err != nil {
		t.Fatalf("failed to create set: %v", err)
	}
	if err := provider.CreateDistractorWord(set.ID, w.ID); err != nil {
		t.Fatalf("failed to create membership: %v", err)
	}
	if err := provider.CreateDistractorWord(set.ID, w.ID); !errors.Is(err, models.ErrDuplicateContent) {
		t.Fatalf("expected ErrDuplicateContent on double membership, got %v", err)
	}
	words, err := provider.DistractorWords(set.ID)
	if err != nil {
		t.Fatalf("failed to read memberships: %v", err)
	}
	if len(words) != 1 || words[0].Value != "coffee" {
		t.Errorf("expected single coffee membership, got %+v", words)
	}
	if err := provider.DeleteDistractorSet(set.ID); err != nil {
		t.Fatalf("failed to delete set: %v", err)
	}
	words, err = provider.DistractorWords(set.ID)
	if err != nil {
		t.Fatalf("failed to re-read memberships: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("expected no memberships after delete, got %+v", words)
	}
}

func TestQuestSubtypeRows(t *testing.T) {
	provider := testProvider(t)
	level, err := provider.CreateLevel("A1")
	if err != nil {
		t.Fatalf("failed to create level: %v", err)
	}
	quest, err := provider.CreateQuest(&models.Quest{Type: models.QuestWordPair, LevelID: level.ID})
	if err != nil {
		t.Fatalf("failed to create quest: %v", err)
	}
	pair := &models.WordPairQuest{QuestID: quest.ID, Word: "der Hund", Translation: "the dog"}
	if err := provider.CreateWordPairQuest(pair); err != nil {
		t.Fatalf("failed to create pair row: %v", err)
	}
	row, err := provider.WordPairByQuest(quest.ID)
	if err != nil {
		t.Fatalf("failed to read pair row: %v", err)
	}
	if row.Word != "der Hund" || row.Translation != "the dog" {
		t.Errorf("unexpected pair row %+v", row)
	}
	if err := provider.DeleteQuest(quest.ID); err != nil {
		t.Fatalf("failed to delete quest: %v", err)
	}
	if _, err := provider.QuestByID(quest.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// subtype row goes with the quest
	if _, err := provider.WordPairByQuest(quest.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected subtype row cascade, got %v", err)
	}
}

func TestAudioAssets(t *testing.T) {
	provider := testProvider(t)
	duration := 1.25
	size := int64(55194)
	asset, err := provider.CreateAudioAsset(&models.AudioAsset{
		Filename: "tts_1700000000000_ab12cd34.wav",
		MimeType: models.MimeWAV,
		Duration: &duration,
		ByteSize: &size,
	})
	if err != nil {
		t.Fatalf("failed to create asset: %v", err)
	}
	got, err := provider.AudioAssetByID(asset.ID)
	if err != nil {
		t.Fatalf("failed to read asset: %v", err)
	}
	if got.Filename != asset.Filename || got.MimeType != models.MimeWAV {
		t.Errorf("unexpected asset %+v", got)
	}
	if got.Duration == nil || *got.Duration != duration {
		t.Errorf("expected duration %f, got %+v", duration, got.Duration)
	}
	if err := provider.DeleteAudioAsset(asset.ID); err != nil {
		t.Fatalf("failed to delete asset: %v", err)
	}
	if _, err := provider.AudioAssetByID(asset.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
