package server

import (
	"encoding/json"
	"net/http"

	"github.com/gantry-io/gantry/pkg/vars"
	"github.com/sirupsen/logrus"
)

// getVars exposes the deployment variables the console was provisioned
// with, secret-bearing fields redacted.
func getVars(w http.ResponseWriter, r *http.Request) {
	varSet, _ := r.Context().Value("varSet").(*vars.VarSet)
	if varSet == nil {
		http.Error(w, "no variables file configured", http.StatusNotFound)
		return
	}

	varsString, err := json.Marshal(varSet.Redacted())
	if err != nil {
		logrus.Errorf("cannot serialize variables: %s", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(200)
	w.Write(varsString)
}
