package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/manufgue/Monitor/internal/model"
)

// pctEntry is one element of the PCTs array as the admin API renders it.
type pctEntry struct {
	PCTName string     `json:"PCTName"`
	Group   string     `json:"group"`
	PCTSec  string     `json:"PCTSec"`
	PCTCnt  CountValue `json:"PCTCnt"`
}

// pctEnvelope is the object form of a success body. The pointer
// distinguishes an absent or null PCTs field from a present empty list.
type pctEnvelope struct {
	PCTs *[]pctEntry `json:"PCTs"`
}

// apiError is the structured error body some endpoints attach to 404s.
type apiError struct {
	ErrorTitle   string `json:"ErrorTitle"`
	ErrorMessage string `json:"ErrorMessage"`
}

// decodeRecords normalizes a 2xx body into records. The API serves either an
// object carrying a PCTs array or a bare array of the same shape; both decode
// here so nothing downstream branches on body shape. Entries without a name
// are dropped without failing the batch.
func decodeRecords(body []byte) ([]model.PctRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty body")
	}

	var entries []pctEntry
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decode record array: %w", err)
		}
	case '{':
		var env pctEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		if env.PCTs == nil {
			return nil, errors.New("missing PCTs field")
		}
		entries = *env.PCTs
	default:
		return nil, errors.New("body is neither object nor array")
	}

	records := make([]model.PctRecord, 0, len(entries))
	for _, e := range entries {
		if e.PCTName == "" {
			continue
		}
		records = append(records, model.PctRecord{
			Name:    e.PCTName,
			Group:   e.Group,
			Section: e.PCTSec,
			Count:   e.PCTCnt.Int(),
		})
	}
	return records, nil
}

// extractAPIError pulls ErrorTitle/ErrorMessage out of a structured error
// body. Bodies without those fields surface as raw text.
func extractAPIError(body []byte) (title, message string) {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && (e.ErrorTitle != "" || e.ErrorMessage != "") {
		return e.ErrorTitle, e.ErrorMessage
	}
	return "", truncate(body, 200)
}
