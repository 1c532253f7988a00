package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"qfs/ledger"
)

// HandleChainInfo serves a summary of the chain: length, difficulty,
// validity, pending count and the tip.
func HandleChainInfo(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, l.Info())
}

// HandleBlocks serves the full block list, or a single block for
// /api/chain/blocks/{index}.
func HandleBlocks(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	suffix := strings.TrimPrefix(r.URL.Path, "/api/chain/blocks")
	suffix = strings.Trim(suffix, "/")
	if suffix == "" {
		writeJSON(w, http.StatusOK, l.Blocks())
		return
	}

	index, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		http.Error(w, "Invalid block index", http.StatusBadRequest)
		return
	}

	block, err := l.Block(index)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
