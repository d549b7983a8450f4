package server

import (
	"encoding/json"
	"net/http"

	"github.com/gantry-io/gantry/cmd/console/config"
	"github.com/gantry-io/gantry/pkg/toolbelt"
	"github.com/gantry-io/gantry/pkg/version"
	"github.com/sirupsen/logrus"
)

func getVersion(w http.ResponseWriter, r *http.Request) {
	versionString, err := json.Marshal(map[string]string{
		"version": version.String(),
	})
	if err != nil {
		logrus.Errorf("cannot serialize version: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	w.Write(versionString)
}

func getPreflight(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tools := ctx.Value("toolbelt").(*toolbelt.Toolbelt)
	conf := ctx.Value("config").(*config.Config)

	report := tools.Preflight(ctx, conf.MinSDKVersion)

	reportString, err := json.Marshal(report)
	if err != nil {
		logrus.Errorf("cannot serialize preflight report: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	w.Write(reportString)
}
