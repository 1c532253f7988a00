package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/pkg/errors"

	"qfs/ledger"
)

type mineRequest struct {
	Miner string `json:"miner"`
}

// HandleMine mines the pending buffer into a new block. Mining with nothing
// pending is a 409, not a 500; the request context cancels the nonce search
// if the client goes away.
func HandleMine(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req mineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if req.Miner == "" {
		http.Error(w, "miner identifier required", http.StatusBadRequest)
		return
	}

	block, err := l.MinePendingTransactions(r.Context(), req.Miner)
	if err != nil {
		if errors.Is(err, ledger.ErrNoWork) {
			writeJSON(w, http.StatusConflict, map[string]string{
				"status": "no_work",
				"error":  err.Error(),
			})
			return
		}
		log.Printf("API\tmining failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, block)
}
