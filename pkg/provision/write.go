package provision

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/epiclabs-io/diff3"
	"github.com/gantry-io/gantry/pkg/vars"
)

// gantryDir holds the previous generation of the bundle. It is the merge
// baseline that lets regeneration keep manual edits to the bundle files.
const gantryDir = ".gantry"

// WriteBundle renders the bundle into targetPath. Files that were hand
// edited since the last generation are three way merged instead of
// overwritten, with the previous generation under .gantry/ as the base.
func WriteBundle(v *vars.VarSet, env string, targetPath string) error {
	generatedFiles, err := Generate(v, env)
	if err != nil {
		return fmt.Errorf("cannot generate bundle: %s", err)
	}

	previousGenerationFiles := readPreviousGeneration(targetPath)

	err = writeFilesAndPreserveCustomChanges(
		previousGenerationFiles,
		generatedFiles,
		targetPath,
	)
	if err != nil {
		return fmt.Errorf("cannot write bundle: %s", err)
	}

	err = keepGenerationForNextRun(targetPath, previousGenerationFiles, generatedFiles)
	if err != nil {
		return fmt.Errorf("cannot keep generation: %s", err)
	}

	return nil
}

func readPreviousGeneration(targetPath string) map[string]string {
	files := map[string]string{}

	root := filepath.Join(targetPath, gantryDir)
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		content, err := ioutil.ReadFile(path)
		if err != nil {
			return nil
		}

		relative, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files[relative] = string(content)

		return nil
	})

	return files
}

func writeFilesAndPreserveCustomChanges(
	previousGenerationFiles map[string]string,
	generatedFiles map[string]string,
	targetPath string,
) error {
	for path, updated := range generatedFiles { // write new or update existing files
		physicalPath := filepath.Join(targetPath, path)

		var existingContent string
		if _, err := os.Stat(physicalPath); err == nil {
			existingContentBytes, err := ioutil.ReadFile(physicalPath)
			if err != nil {
				return fmt.Errorf("cannot read file %s: %s", path, err.Error())
			}
			existingContent = string(existingContentBytes)
		}

		var baseline string
		if val, ok := previousGenerationFiles[path]; ok {
			baseline = val
		}

		var mergedString string
		if existingContent != "" {
			merged, err := diff3.Merge(strings.NewReader(existingContent), strings.NewReader(baseline), strings.NewReader(updated), true, "Your custom settings", "From gantry generate")
			if err != nil {
				return fmt.Errorf("cannot merge %s: %s", path, err.Error())
			}
			mergedBuffer := new(strings.Builder)
			_, err = io.Copy(mergedBuffer, merged.Result)
			if err != nil {
				return fmt.Errorf("cannot merge %s: %s", path, err.Error())
			}

			mergedString = mergedBuffer.String()
			if !strings.HasSuffix(mergedString, "\n") {
				mergedString = mergedString + "\n"
			}
		} else {
			mergedString = updated
		}

		err := os.MkdirAll(filepath.Dir(physicalPath), 0775)
		if err != nil {
			return fmt.Errorf("cannot write bundle: %s", err.Error())
		}
		err = ioutil.WriteFile(physicalPath, []byte(mergedString), 0664)
		if err != nil {
			return fmt.Errorf("cannot write bundle: %s", err.Error())
		}
	}

	for path := range previousGenerationFiles { // delete files gone from the bundle
		if _, ok := generatedFiles[path]; !ok {
			physicalPath := filepath.Join(targetPath, path)
			err := os.Remove(physicalPath)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("cannot clean up file: %s", err.Error())
			}
		}
	}

	return nil
}

func keepGenerationForNextRun(
	targetPath string,
	previousGenerationFiles map[string]string,
	generatedFiles map[string]string,
) error {
	for path, content := range generatedFiles {
		backupPath := filepath.Join(targetPath, gantryDir, path)
		err := os.MkdirAll(filepath.Dir(backupPath), 0775)
		if err != nil {
			return err
		}
		err = ioutil.WriteFile(backupPath, []byte(content), 0664)
		if err != nil {
			return err
		}
	}

	for path := range previousGenerationFiles { // drop stale baselines
		if _, ok := generatedFiles[path]; !ok {
			os.Remove(filepath.Join(targetPath, gantryDir, path))
		}
	}

	return nil
}
