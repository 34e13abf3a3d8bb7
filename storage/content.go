package storage

import (
	"lingoquest/models"
)

type Content interface {
	CreateAudioAsset(a *models.AudioAsset) (*models.AudioAsset, error)
	AudioAssetByID(id int64) (*models.AudioAsset, error)
	DeleteAudioAsset(id int64) error
	CreateSentence(s *models.Sentence) (*models.Sentence, error)
	SentenceByID(id int64) (*models.Sentence, error)
	DeleteSentence(id int64) error
	CreateSentenceWord(link *models.SentenceWord) error
	SentenceWordsOrdered(sentenceID int64) ([]models.Word, error)
	DeleteSentenceWords(sentenceID int64) error
	CreateDistractorSet() (*models.DistractorSet, error)
	CreateDistractorWord(setID, wordID int64) error
	DistractorWords(setID int64) ([]models.Word, error)
	DeleteDistractorSet(setID int64) error
}

func (p *ProviderSQL) CreateAudioAsset(a *models.AudioAsset) (*models.AudioAsset, error) {
	query := `
        INSERT INTO audio_assets (filename, mime_type, duration_sec, byte_size)
        VALUES (:filename, :mime_type, :duration_sec, :byte_size)
        RETURNING *;`
	stmt, err := p.db.PrepareNamed(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var asset models.AudioAsset
	if err := stmt.Get(&asset, a); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (p *ProviderSQL) AudioAssetByID(id int64) (*models.AudioAsset, error) {
	var asset models.AudioAsset
	if err := p.db.Get(&asset, "SELECT * FROM audio_assets WHERE id = $1;", id); err != nil {
		return nil, notFound(err)
	}
	return &asset, nil
}

func (p *ProviderSQL) DeleteAudioAsset(id int64) error {
	_, err := p.db.Exec("DELETE FROM audio_assets WHERE id = $1;", id)
	return err
}

func (p *ProviderSQL) CreateSentence(s *models.Sentence) (*models.Sentence, error) {
	query := "INSERT INTO sentences (value, audio_id) VALUES (:value, :audio_id) RETURNING *;"
	stmt, err := p.db.PrepareNamed(query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	var sentence models.Sentence
	if err := stmt.Get(&sentence, s); err != nil {
		return nil, err
	}
	return &sentence, nil
}

func (p *ProviderSQL) SentenceByID(id int64) (*models.Sentence, error) {
	var sentence models.Sentence
	if err := p.db.Get(&sentence, "SELECT * FROM sentences WHERE id = $1;", id); err != nil {
		return nil, notFound(err)
	}
	return &sentence, nil
}

func (p *ProviderSQL) DeleteSentence(id int64) error {
	_, err := p.db.Exec("DELETE FROM sentences WHERE id = $1;", id)
	return err
}

func (p *ProviderSQL) CreateSentenceWord(link *models.SentenceWord) error {
	query := `
        INSERT INTO sentence_words (sentence_id, word_id, pos)
        VALUES (:sentence_id, :word_id, :pos);`
	if _, err := p.db.NamedExec(query, link); err != nil {
		return uniqueViolation(err)
	}
	return nil
}

// SentenceWordsOrdered returns the sentence's words in position order,
// i.e. the original token order of the authored sentence.
func (p *ProviderSQL) SentenceWordsOrdered(sentenceID int64) ([]models.Word, error) {
	words := []models.Word{}
	query := `
        SELECT w.id, w.value, w.audio_id FROM words w
        JOIN sentence_words sw ON sw.word_id = w.id
        WHERE sw.sentence_id = $1
        ORDER BY sw.pos;`
	err := p.db.Select(&words, query, sentenceID)
	return words, err
}

func (p *ProviderSQL) DeleteSentenceWords(sentenceID int64) error {
	_, err := p.db.Exec("DELETE FROM sentence_words WHERE sentence_id = $1;", sentenceID)
	return err
}

func (p *ProviderSQL) CreateDistractorSet() (*models.DistractorSet, error) {
	var set models.DistractorSet
	if err := p.db.Get(&set, "INSERT INTO distractor_sets DEFAULT VALUES RETURNING *;"); err != nil {
		return nil, err
	}
	return &set, nil
}

func (p *ProviderSQL) CreateDistractorWord(setID, wordID int64) error {
	query := "INSERT INTO distractor_words (set_id, word_id) VALUES ($1, $2);"
	if _, err := p.db.Exec(query, setID, wordID); err != nil {
		return uniqueViolation(err)
	}
	return nil
}

func (p *ProviderSQL) DistractorWords(setID int64) ([]models.Word, error) {
	words := []models.Word{}
	query := `
        SELECT w.id, w.value, w.audio_id FROM words w
        JOIN distractor_words dw ON dw.word_id = w.id
        WHERE dw.set_id = $1;`
	err := p.db.Select(&words, query, setID)
	return words, err
}

func (p *ProviderSQL) DeleteDistractorSet(setID int64) error {
	if _, err := p.db.Exec("DELETE FROM distractor_words WHERE set_id = $1;", setID); err != nil {
		return err
	}
	_, err := p.db.Exec("DELETE FROM distractor_sets WHERE id = $1;", setID)
	return err
}
