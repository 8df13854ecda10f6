package controllers

import (
	"net/http"

	"github.com/hostelworks/roster-backend/api/responses"
	"github.com/hostelworks/roster-backend/pkg/config"
	"github.com/hostelworks/roster-backend/pkg/db"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
	"github.com/hostelworks/roster-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Hostel-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Hostel-Env", cfg.App.Env)

		if dbP == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "database not configured")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "database not reachable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
