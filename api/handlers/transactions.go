package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"qfs/ledger"
)

// HandleTransactions accepts a transaction and appends it to the pending
// buffer. Required-field failures come back as 400 with the reason.
func HandleTransactions(w http.ResponseWriter, r *http.Request, l *ledger.Ledger) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var tx ledger.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		log.Printf("API\tfailed to decode transaction: %v", err)
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	if err := l.AddTransaction(tx); err != nil {
		log.Printf("API\ttransaction rejected: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "rejected",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":  "pending",
		"pending": l.PendingCount(),
	})
}
