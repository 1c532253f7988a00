package api

import (
	"log"
	"net/http"

	"qfs/api/handlers"
	"qfs/ledger"
	"qfs/rosegold"
)

// Server exposes the ledger and the node cipher over HTTP. Both are passed
// in explicitly; there is no ambient shared instance.
type Server struct {
	ledger *ledger.Ledger
	cipher *rosegold.Cipher
	addr   string
	mux    *http.ServeMux
}

// NewServer creates an API server around an existing ledger and cipher.
func NewServer(l *ledger.Ledger, cipher *rosegold.Cipher, addr string) *Server {
	server := &Server{
		ledger: l,
		cipher: cipher,
		addr:   addr,
		mux:    http.NewServeMux(),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP endpoints
func (s *Server) setupRoutes() {
	// Chain endpoints
	s.mux.HandleFunc("/api/chain", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleChainInfo(w, r, s.ledger)
	})
	s.mux.HandleFunc("/api/chain/blocks", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleBlocks(w, r, s.ledger)
	})
	s.mux.HandleFunc("/api/chain/blocks/", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleBlocks(w, r, s.ledger) // Handles /api/chain/blocks/{index}
	})

	// Transaction endpoints
	s.mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleTransactions(w, r, s.ledger)
	})

	// Mining endpoint
	s.mux.HandleFunc("/api/mine", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleMine(w, r, s.ledger)
	})

	// Balance endpoint
	s.mux.HandleFunc("/api/balance/", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleBalance(w, r, s.ledger)
	})

	// Cipher endpoints
	s.mux.HandleFunc("/api/encrypt", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleEncrypt(w, r, s.cipher)
	})
	s.mux.HandleFunc("/api/decrypt", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleDecrypt(w, r, s.cipher)
	})
}

// Handler returns the configured mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins serving HTTP requests (blocks forever)
func (s *Server) Start() error {
	log.Printf("API\tserving on %s", s.addr)
	return http.ListenAndServe(s.addr, s.mux)
}
