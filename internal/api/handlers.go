package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"loan-advisor/internal/advisory/session"
	"loan-advisor/internal/common/errors"
	"loan-advisor/internal/loan/calculator"
	"loan-advisor/internal/loan/profile"
	"loan-advisor/internal/loan/recommend"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

type recommendationRequest struct {
	SessionID string          `json:"sessionId,omitempty"`
	Answers   profile.Answers `json:"answers"`
}

type recommendationResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Count           int                        `json:"count"`
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, errors.NewInvalidProfileAnswersError(fmt.Sprintf("decode body: %v", err)))
		return
	}
	if err := req.Answers.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	recs := s.recommender.Recommend(r.Context(), req.Answers)
	if req.SessionID != "" {
		s.tracker.QuizCompleted(req.SessionID, req.Answers)
		s.tracker.ResultsViewed(req.SessionID, recs)
	}
	writeJSON(w, http.StatusOK, recommendationResponse{Recommendations: recs, Count: len(recs)})
}

type calculatorRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	calculator.Params
}

func (s *Server) calculate(w http.ResponseWriter, r *http.Request) {
	req := calculatorRequest{Params: calculator.DefaultParams()}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, errors.NewInvalidLoanParametersError(fmt.Sprintf("decode body: %v", err)))
		return
	}

	result, err := calculator.Calculate(req.Params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.SessionID != "" {
		s.tracker.CalculatorUsed(req.SessionID, req.Amount, req.RatePercent, req.TermYears)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": s.catalog.Products()})
}

type productEventRequest struct {
	SessionID     string  `json:"sessionId"`
	LoanAmount    float64 `json:"loanAmount"`
	EstimatedRate float64 `json:"estimatedRate"`
}

func (s *Server) productEvent(w http.ResponseWriter, r *http.Request) (recommend.Recommendation, *productEventRequest, bool) {
	product, ok := s.catalog.ByID(chi.URLParam(r, "productID"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "PRODUCT_NOT_FOUND", Message: "Loan product not found"})
		return recommend.Recommendation{}, nil, false
	}
	var req productEventRequest
	if err := decode(w, r, &req); err != nil && err != io.EOF {
		s.writeError(w, r, errors.NewInvalidRequestError(fmt.Sprintf("decode body: %v", err)))
		return recommend.Recommendation{}, nil, false
	}
	return recommend.Recommendation{Product: product, EstimatedRate: req.EstimatedRate}, &req, true
}

func (s *Server) productViewed(w http.ResponseWriter, r *http.Request) {
	rec, req, ok := s.productEvent(w, r)
	if !ok {
		return
	}
	s.tracker.LoanDetailsViewed(req.SessionID, rec, req.LoanAmount)
	w.WriteHeader(http.StatusNoContent)
}

// applicationStarted records the referral and hands back the lender's URL.
func (s *Server) applicationStarted(w http.ResponseWriter, r *http.Request) {
	rec, req, ok := s.productEvent(w, r)
	if !ok {
		return
	}
	s.tracker.ApplicationStarted(req.SessionID, rec, req.LoanAmount)
	writeJSON(w, http.StatusOK, map[string]string{"redirectUrl": rec.Product.AffiliateURL})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Profile *session.UserProfile `json:"profile"`
	}
	if err := decode(w, r, &req); err != nil && err != io.EOF {
		s.writeError(w, r, errors.NewInvalidChatInputError(fmt.Sprintf("decode body: %v", err)))
		return
	}

	sess, err := s.chat.StartSession(r.Context(), req.Profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.chat.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, errors.NewInvalidChatInputError(fmt.Sprintf("decode body: %v", err)))
		return
	}

	reply, err := s.chat.ProcessMessage(r.Context(), chi.URLParam(r, "sessionID"), req.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var u session.ProfileUpdate
	if err := decode(w, r, &u); err != nil {
		s.writeError(w, r, errors.NewInvalidChatInputError(fmt.Sprintf("decode body: %v", err)))
		return
	}

	sess, err := s.chat.UpdateProfile(r.Context(), chi.URLParam(r, "sessionID"), u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) setLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language session.Language `json:"language"`
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, errors.NewInvalidChatInputError(fmt.Sprintf("decode body: %v", err)))
		return
	}

	sess, err := s.chat.SetLanguage(r.Context(), chi.URLParam(r, "sessionID"), req.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	sess, err := s.chat.ClearHistory(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
