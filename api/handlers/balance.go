package handlers

import (
	"net/http"
	"strings"

	"qfs/ledger"
)

// HandleBalance serves the chain-walk balance for /api/balance/{id}.
func HandleBalance(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/balance"), "/")
	if id == "" {
		http.Error(w, "account identifier required", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"address": id,
		"balance": l.Balance(id),
	})
}
