// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"readiness-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	// Add command flags
	addPath := addCmd.String("path", defaultRegistryPath, "Path to registry file")
	idAdd := addCmd.String("id", "", "Activity ID (e.g., compute-readiness-score)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Compute Readiness Score)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (assessment, communication, indicators)")
	taskType := addCmd.String("taskType", "", "Zeebe task type (defaults to the ID)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", registry.StatusPlanned, "Implementation status (planned, in-progress, completed, verified)")
	timeout := addCmd.String("timeout", "10s", "Handler timeout")

	// Update command flags
	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")
	listPath := listCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		_ = addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *category == "" {
			fmt.Println("Error: id, displayName and category are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		if *taskType == "" {
			*taskType = *idAdd
		}
		err = addActivity(*addPath, registry.Activity{
			ID:                   *idAdd,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *implStatus,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           []string{"PARSE_ERROR"},
			Timeout:              *timeout,
			Processes:            []string{},
			Tags:                 []string{},
		})
		if err == nil {
			fmt.Printf("Added activity: %s\n", *idAdd)
		}

	case "update":
		_ = updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err = updateActivity(*updatePath, *idUpdate, *field, *value)
		if err == nil {
			fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)
		}

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		var reg *registry.ActivityRegistry
		if reg, err = registry.LoadRegistry(*validatePath); err == nil {
			if err = reg.Validate(); err == nil {
				fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
			}
		}

	case "list":
		_ = listCmd.Parse(os.Args[2:])
		err = listActivities(*listPath)

	default:
		help()
		return
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func addActivity(path string, activity registry.Activity) error {
	reg, err := registry.LoadRegistry(path)
	if os.IsNotExist(err) {
		reg = &registry.ActivityRegistry{Version: "1.0.0", Activities: []registry.Activity{}}
	} else if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	if err := reg.Add(activity, time.Now()); err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	return reg.Save(path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	a, ok := reg.Find(id)
	if !ok {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "category":
		a.Category = value
	case "taskType":
		a.TaskType = value
	case "timeout":
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	case "errorCodes":
		a.ErrorCodes = strings.Split(value, ",")
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	if err := reg.Validate(); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return reg.Save(path)
}

func listActivities(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	for _, a := range reg.Activities {
		fmt.Printf("%-28s %-14s %-12s timeout=%s retries=%d\n",
			a.TaskType, a.Category, a.ImplementationStatus, a.Timeout, a.Retries)
	}
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new activity to the registry
  update   Update an existing activity's field
  validate Validate the registry file
  list     Print every registered task type
  help     Show this help message

Examples:
  registry-updater add -id compute-readiness-score -displayName "Compute Readiness Score" -category assessment
  registry-updater update -id compute-readiness-score -field status -value verified
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.`)
}
