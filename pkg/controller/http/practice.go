package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"github.com/secmon-lab/dcrisk/pkg/usecase"
	"github.com/secmon-lab/dcrisk/pkg/utils/errutil"
)

func listPracticesHandler(uc *usecase.PracticeUseCase) http.HandlerFunc {
	type response struct {
		BestPractices []*usecase.PracticeState `json:"bestPractices"`
		Progress      *usecase.Progress        `json:"progress"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := UserIDFrom(ctx)

		states, err := uc.List(ctx, userID, r.URL.Query().Get("q"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		progress, err := uc.Progress(ctx, userID)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, response{BestPractices: states, Progress: progress})
	}
}

func togglePracticeHandler(uc *usecase.PracticeUseCase) http.HandlerFunc {
	type response struct {
		ID          types.PracticeID `json:"id"`
		Implemented bool             `json:"implemented"`
		Persisted   bool             `json:"persisted"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := types.PracticeID(chi.URLParam(r, "id"))

		implemented, err := uc.Toggle(ctx, UserIDFrom(ctx), id)
		if err != nil {
			if errors.Is(err, usecase.ErrPersistFailed) {
				// the toggle is applied in memory; the client decides whether to retry
				_ = errutil.Handle(ctx, err, "failed to persist practice toggle")
				writeJSON(w, r, http.StatusServiceUnavailable, response{ID: id, Implemented: implemented})
				return
			}
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, response{ID: id, Implemented: implemented, Persisted: true})
	}
}
