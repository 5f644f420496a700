package common

import (
	"encoding/json"
	"fmt"
	"os"
)

type ciResult struct {
	OK      bool     `json:"ok"`
	Name    string   `json:"name"`
	Details []string `json:"details,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// PrintCIResult writes a single machine-readable JSON line for CI runs.
func PrintCIResult(ok bool, name string, details []string, err error) {
	res := ciResult{OK: ok, Name: name, Details: details}
	if err != nil {
		res.Error = err.Error()
	}
	out, marshalErr := json.Marshal(res)
	if marshalErr != nil {
		fmt.Fprintf(os.Stderr, "ci result marshal failed: %v\n", marshalErr)
		return
	}
	fmt.Println(string(out))
}
