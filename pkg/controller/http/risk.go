package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/domain/model"
	"github.com/secmon-lab/dcrisk/pkg/domain/types"
	"github.com/secmon-lab/dcrisk/pkg/usecase"
	"github.com/secmon-lab/dcrisk/pkg/utils/errutil"
)

const (
	defaultMinInterconnections = 3
	defaultKeyRiskLimit        = 6
	connectedPreviewLimit      = 3
)

// riskResponse is a risk with its derived display metadata
type riskResponse struct {
	*model.Risk
	CategoryInfo  model.CategoryInfo `json:"categoryInfo"`
	SeverityColor string             `json:"severityColor"`
	Quadrant      types.QuadrantName `json:"quadrant"`
}

func toRiskResponse(r *model.Risk) (*riskResponse, error) {
	c, err := usecase.Classify(r)
	if err != nil {
		return nil, err
	}
	return &riskResponse{
		Risk:          r,
		CategoryInfo:  c.Category,
		SeverityColor: c.SeverityColor,
		Quadrant:      c.Quadrant,
	}, nil
}

func toRiskResponses(risks []*model.Risk) ([]*riskResponse, error) {
	out := make([]*riskResponse, 0, len(risks))
	for _, r := range risks {
		resp, err := toRiskResponse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// handleError maps use case errors to status codes
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrRiskNotFound), errors.Is(err, usecase.ErrPracticeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}

var errBadRequest = errors.New("bad request")

func summaryHandler(uc *usecase.CatalogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := uc.Summary()
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, summary)
	}
}

func listRisksHandler(uc *usecase.CatalogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risks := uc.SearchRisks(r.URL.Query().Get("q"))

		if raw := r.URL.Query().Get("type"); raw != "" {
			riskType, err := types.ParseRiskType(raw)
			if err != nil {
				handleError(w, r, goerr.Wrap(errBadRequest, "invalid risk type", goerr.V("type", raw)))
				return
			}
			filtered := risks[:0]
			for _, risk := range risks {
				if risk.Type == riskType {
					filtered = append(filtered, risk)
				}
			}
			risks = filtered
		}

		resp, err := toRiskResponses(risks)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"risks": resp})
	}
}

func getRiskHandler(uc *usecase.CatalogUseCase) http.HandlerFunc {
	type response struct {
		Risk             *riskResponse            `json:"risk"`
		Dependencies     []*riskResponse          `json:"dependencies"`
		Dependents       []*riskResponse          `json:"dependents"`
		Interconnections []*riskResponse          `json:"interconnections"`
		MonitoringTools  []usecase.ToolReference  `json:"monitoringTools"`
		BestPractices    []*model.BestPractice    `json:"bestPractices"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id := types.RiskID(chi.URLParam(r, "id"))

		risk, err := uc.GetRisk(id)
		if err != nil {
			handleError(w, r, err)
			return
		}

		var resp response
		if resp.Risk, err = toRiskResponse(risk); err != nil {
			handleError(w, r, err)
			return
		}

		for _, rel := range []struct {
			resolve func(types.RiskID) ([]*model.Risk, error)
			dst     *[]*riskResponse
		}{
			{uc.DependenciesOf, &resp.Dependencies},
			{uc.DependentsOf, &resp.Dependents},
			{uc.InterconnectionsOf, &resp.Interconnections},
		} {
			risks, err := rel.resolve(id)
			if err != nil {
				handleError(w, r, err)
				return
			}
			if *rel.dst, err = toRiskResponses(risks); err != nil {
				handleError(w, r, err)
				return
			}
		}

		if resp.MonitoringTools, err = uc.MonitoringToolsFor(id); err != nil {
			handleError(w, r, err)
			return
		}
		if resp.BestPractices, err = uc.PracticesForRisk(id); err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, resp)
	}
}

func relatedRisksHandler(resolve func(types.RiskID) ([]*model.Risk, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risks, err := resolve(types.RiskID(chi.URLParam(r, "id")))
		if err != nil {
			handleError(w, r, err)
			return
		}
		resp, err := toRiskResponses(risks)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"risks": resp})
	}
}

func matrixHandler(uc *usecase.CatalogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cells, err := uc.Matrix()
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"cells": cells})
	}
}

func interconnectionsHandler(uc *usecase.CatalogUseCase) http.HandlerFunc {
	type keyRisk struct {
		Risk      *riskResponse `json:"risk"`
		Count     int           `json:"count"`
		Connected []*model.Risk `json:"connected"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		minDegree, err := intQuery(r, "min", defaultMinInterconnections)
		if err != nil {
			handleError(w, r, err)
			return
		}
		limit, err := intQuery(r, "limit", defaultKeyRiskLimit)
		if err != nil {
			handleError(w, r, err)
			return
		}

		risks := uc.HighConnectivityRisks(minDegree, limit)
		resp := make([]keyRisk, 0, len(risks))
		for _, risk := range risks {
			view, err := toRiskResponse(risk)
			if err != nil {
				handleError(w, r, err)
				return
			}
			connected, err := uc.InterconnectionsOf(risk.ID)
			if err != nil {
				handleError(w, r, err)
				return
			}
			if len(connected) > connectedPreviewLimit {
				connected = connected[:connectedPreviewLimit]
			}
			resp = append(resp, keyRisk{
				Risk:      view,
				Count:     len(risk.Interconnections),
				Connected: connected,
			})
		}
		writeJSON(w, r, http.StatusOK, map[string]any{"risks": resp})
	}
}

func categoryHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, usecase.CategoryInfoOf(types.CategoryID(chi.URLParam(r, "id"))))
}

func monitoringToolsHandler(uc *usecase.CatalogUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]any{"monitoringTools": uc.ListMonitoringTools()})
	}
}

func intQuery(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, goerr.Wrap(errBadRequest, "query parameter must be an integer", goerr.V(key, raw))
	}
	return v, nil
}
