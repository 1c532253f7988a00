package handlers

import (
	"encoding/json"
	"net/http"

	"qfs/rosegold"
)

type encryptRequest struct {
	// Plaintext is base64 on the wire (encoding/json's []byte convention).
	Plaintext []byte `json:"plaintext"`
}

type encryptResponse struct {
	Payload     string `json:"payload"`
	Fingerprint string `json:"fingerprint"`
}

type decryptRequest struct {
	Payload string `json:"payload"`
}

type decryptResponse struct {
	Plaintext []byte `json:"plaintext"`
	Verified  bool   `json:"verified"`
}

// HandleEncrypt encrypts the posted plaintext under the node cipher and
// returns the encoded payload.
func HandleEncrypt(w http.ResponseWriter, r *http.Request, cipher *rosegold.Cipher) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req encryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := cipher.Encrypt(req.Plaintext)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, encryptResponse{
		Payload:     payload.Encode(),
		Fingerprint: cipher.Fingerprint(),
	})
}

// HandleDecrypt decodes the posted payload and decrypts it. A tampered
// payload still yields the best-effort plaintext, with verified false.
func HandleDecrypt(w http.ResponseWriter, r *http.Request, cipher *rosegold.Cipher) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req decryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := rosegold.DecodePayload(req.Payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plaintext, verified := cipher.Decrypt(payload)
	writeJSON(w, http.StatusOK, decryptResponse{
		Plaintext: plaintext,
		Verified:  verified,
	})
}
