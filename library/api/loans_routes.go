package api

import (
	"net/http"

	"github.com/AntonStoeckl/library-lending/library/features/command/changeloanstatus"
	"github.com/AntonStoeckl/library-lending/library/features/command/deleteloan"
	"github.com/AntonStoeckl/library-lending/library/features/command/lendbook"
	"github.com/AntonStoeckl/library-lending/library/features/query/activeloans"
	"github.com/AntonStoeckl/library-lending/library/features/query/pastloans"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// loanData wraps the loan touched by a command. Listings return the bare list as data.
type loanData struct {
	Loan LoanDTO `json:"loan"`
}

func (s *Server) addLoan(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64) {
	request, err := parseLoanRequest(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	startDate, err := parseStartDate(request.StartDate)
	if err != nil {
		writeFailure(w, err)
		return
	}

	command := lendbook.BuildCommand(userID, request.BookID, startDate, request.Quantity, request.LibrarianID)

	result, err := s.handlers.LendBook.Handle(r.Context(), command)
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "loan added", loanData{Loan: toLoanDTO(result.Value)})
}

func (s *Server) updateLoanStatus(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64) {
	loanID, err := pathID(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	request, err := parseStatusRequest(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	result, err := s.handlers.ChangeLoanStatus.Handle(r.Context(), changeloanstatus.BuildCommand(userID, loanID, request.Status))
	if err != nil {
		writeFailure(w, err)
		return
	}

	message := "loan status updated"
	if result.Idempotent {
		message = "loan status unchanged"
	}

	writeSuccess(w, http.StatusOK, message, loanData{Loan: toLoanDTO(result.Value)})
}

func (s *Server) deleteLoan(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64) {
	loanID, err := pathID(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	result, err := s.handlers.DeleteLoan.Handle(r.Context(), deleteloan.BuildCommand(userID, loanID))
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "loan deleted", loanData{Loan: toLoanDTO(result.Value)})
}

func (s *Server) listActiveLoans(scope shell.Scope) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64) {
		open, err := s.handlers.ActiveLoans.Handle(r.Context(), activeloans.BuildQuery(userID, scope))
		if err != nil {
			writeFailure(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, "loans found", toLoanViewDTOs(open.Loans))
	}
}

func (s *Server) listPastLoans(scope shell.Scope) userHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, userID librarystore.UserIDInt64) {
		returned, err := s.handlers.PastLoans.Handle(r.Context(), pastloans.BuildQuery(userID, scope))
		if err != nil {
			writeFailure(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, "loans found", toLoanViewDTOs(returned.Loans))
	}
}
