package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/esoccer-insights/stats-api/internal/logic"
	"github.com/esoccer-insights/stats-api/internal/models"
)

var errNullRecord = errors.New("null match record")

// IngestMatches handles POST /api/v1/ingest/matches
// @Summary Ingest Match Records
// @Description Accepts a JSON array or newline-separated JSON match records in any upstream schema
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param body body []models.RawMatch true "Matches"
// @Success 202 {object} models.IngestResponse "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 413 {object} map[string]string "Payload Too Large"
// @Router /ingest/matches [post]
func (h *Handler) IngestMatches(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	defer r.Body.Close()

	raws, lines, discarded, err := decodeRawMatches(body)
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	processed := 0
	for i, raw := range raws {
		record, ok := logic.NormalizeMatch(raw)
		if !ok {
			discarded++
			continue
		}
		if !h.pool.Enqueue(record, lines[i]) {
			h.logger.Warnw("Worker pool queue full, dropping remaining matches in batch",
				"processed", processed, "remaining", len(raws)-i)
			break
		}
		processed++
	}

	if discarded > 0 {
		h.logger.Infow("Discarded unusable match records", "discarded", discarded, "processed", processed)
	}

	h.jsonResponse(w, http.StatusAccepted, models.IngestResponse{
		Status:    "accepted",
		Processed: processed,
		Discarded: discarded,
	})
}

// decodeRawMatches accepts a JSON array or one JSON object per line. It
// returns the raw records, their original JSON and the count of lines that
// failed to parse. Only a malformed array fails the whole body.
func decodeRawMatches(body []byte) ([]models.RawMatch, []string, int, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil, 0, nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, nil, 0, err
		}
		raws := make([]models.RawMatch, 0, len(items))
		lines := make([]string, 0, len(items))
		bad := 0
		for _, item := range items {
			raw, err := decodeRawMatch(item)
			if err != nil {
				bad++
				continue
			}
			raws = append(raws, raw)
			lines = append(lines, string(item))
		}
		return raws, lines, bad, nil
	}

	var raws []models.RawMatch
	var lines []string
	bad := 0
	for _, line := range bytes.Split(trimmed, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		raw, err := decodeRawMatch(line)
		if err != nil {
			bad++
			continue
		}
		raws = append(raws, raw)
		lines = append(lines, string(line))
	}
	return raws, lines, bad, nil
}

func decodeRawMatch(data []byte) (models.RawMatch, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw models.RawMatch
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errNullRecord
	}
	return raw, nil
}
