package main

/*
This is to run the transformer cmd binary in batch mode: one independent
process per check metadata file, all appending to the same CSV path.
*/
import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type CmdParams struct {
	BinaryPath    string
	TargetFolder  string
	CSVPath       string
	ConfigPath    string
	Germplasm     string
	Loglevel      string
	GeostreamsCSV bool
	BetydbCSV     bool
}

// ProcessResult represents the result of processing one metadata file
type ProcessResult struct {
	Metadata string
	Success  bool
	Error    error
	Duration time.Duration
}

func main() {
	cmdParams := &CmdParams{}
	// Parse command-line flags
	targetFolder := flag.String("targetfolder", "metadata", "Target folder containing check metadata JSON files")
	binaryPath := flag.String("binarypath", "./transformer", "Path to transformer binary")
	numWorkers := flag.Int("workers", 3, "Number of worker threads")
	csvPath := flag.String("csv_path", "", "Sending -csv_path to the transformer")
	configPath := flag.String("config", "", "Sending -config to the transformer")
	germplasm := flag.String("germplasm", "", "Cultivar name passed to the transformer")
	loglevel := flag.String("loglevel", "info", "Sending -loglevel to the transformer")
	geostreamsCSV := flag.Bool("geostreams_csv", false, "Sending -geostreams_csv to the transformer")
	betydbCSV := flag.Bool("betydb_csv", false, "Sending -betydb_csv to the transformer")
	flag.Parse()

	// Assign parsed values
	cmdParams.TargetFolder = *targetFolder
	cmdParams.BinaryPath = *binaryPath
	cmdParams.CSVPath = *csvPath
	cmdParams.ConfigPath = *configPath
	cmdParams.Germplasm = *germplasm
	cmdParams.Loglevel = *loglevel
	cmdParams.GeostreamsCSV = *geostreamsCSV
	cmdParams.BetydbCSV = *betydbCSV

	// Validate inputs
	if cmdParams.TargetFolder == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}
	// Remove trailing slash from targetFolder if present
	cmdParams.TargetFolder = strings.TrimSuffix(cmdParams.TargetFolder, "/")

	// Find metadata files to process
	metadataFiles, err := findMetadataFiles(cmdParams.TargetFolder)
	if err != nil {
		log.Fatalf("Error finding metadata files: %v", err)
	}

	if len(metadataFiles) == 0 {
		log.Fatal("No metadata files found in target folder")
	}

	fmt.Printf("Found %d metadata files to process\n", len(metadataFiles))

	// Create a channel to send metadata files to workers
	metadataChan := make(chan string, len(metadataFiles))

	// Create a channel to receive results from workers
	resultChan := make(chan ProcessResult, len(metadataFiles))

	// Create a wait group to wait for all workers to finish
	var wg sync.WaitGroup

	// Start worker goroutines
	workerCount := *numWorkers
	if workerCount > len(metadataFiles) {
		workerCount = len(metadataFiles)
	}

	fmt.Printf("Starting %d worker threads\n", workerCount)
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go worker(i, cmdParams, metadataChan, resultChan, &wg)
	}

	// Send metadata files to the channel
	for _, metadataFile := range metadataFiles {
		metadataChan <- metadataFile
	}
	close(metadataChan)

	// Wait for all workers to finish
	wg.Wait()

	// Close the results channel
	close(resultChan)

	// Process results
	var failed []ProcessResult
	var successCount int

	for result := range resultChan {
		if result.Error != nil {
			failed = append(failed, result)
		} else {
			successCount++
		}
	}

	// Print summary
	fmt.Printf("\nProcessing summary:\n")
	fmt.Printf("  Total metadata files: %d\n", len(metadataFiles))
	fmt.Printf("  Successfully processed: %d\n", successCount)
	fmt.Printf("  Failed: %d\n", len(failed))

	if len(failed) > 0 {
		fmt.Println("\nFailed metadata files:")
		for _, result := range failed {
			fmt.Printf("  %s: %v\n", result.Metadata, result.Error)
		}
		os.Exit(1)
	} else {
		fmt.Println("All metadata files processed successfully")
	}
}

// worker processes metadata files from the channel
func worker(id int, cmdParams *CmdParams, metadataFiles <-chan string,
	results chan<- ProcessResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for metadataFile := range metadataFiles {
		fmt.Printf("Worker %d processing metadata file: %s\n", id, metadataFile)

		cmdArgs := buildArgs(cmdParams, metadataFile)

		// Log the command and parameters
		fmt.Printf("Worker %d: Running command: %s %s\n", id, cmdParams.BinaryPath, strings.Join(cmdArgs, " "))

		cmd := exec.Command(cmdParams.BinaryPath, cmdArgs...)

		// Set the command to inherit stdout and stderr
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		// Run the command
		startTime := time.Now()
		err := cmd.Run()
		duration := time.Since(startTime)

		if err != nil {
			fmt.Printf("Worker %d: Error processing metadata file %s: %v (took %v)\n",
				id, metadataFile, err, duration)
			results <- ProcessResult{
				Metadata: metadataFile,
				Success:  false,
				Error:    err,
				Duration: duration,
			}
		} else {
			fmt.Printf("Worker %d: Successfully processed metadata file %s (took %v)\n",
				id, metadataFile, duration)
			results <- ProcessResult{
				Metadata: metadataFile,
				Success:  true,
				Error:    nil,
				Duration: duration,
			}
		}
	}
}

// buildArgs assembles the transformer invocation for one metadata file.
// All flags come first; the germplasm name is positional and must stay
// last, since the transformer's flag parsing stops at the first non-flag
// argument.
func buildArgs(cmdParams *CmdParams, metadataFile string) []string {
	cmdArgs := []string{
		"-metadata", metadataFile,
		"-loglevel", cmdParams.Loglevel,
	}
	if cmdParams.CSVPath != "" {
		cmdArgs = append(cmdArgs, "-csv_path", cmdParams.CSVPath)
	}
	if cmdParams.ConfigPath != "" {
		cmdArgs = append(cmdArgs, "-config", cmdParams.ConfigPath)
	}
	if cmdParams.GeostreamsCSV {
		cmdArgs = append(cmdArgs, "-geostreams_csv")
	}
	if cmdParams.BetydbCSV {
		cmdArgs = append(cmdArgs, "-betydb_csv")
	}
	if cmdParams.Germplasm != "" {
		cmdArgs = append(cmdArgs, cmdParams.Germplasm)
	}
	return cmdArgs
}

// findMetadataFiles finds all JSON files in the target folder
func findMetadataFiles(targetFolder string) ([]string, error) {

	// Check if the target folder exists
	if _, err := os.Stat(targetFolder); os.IsNotExist(err) {
		return nil, fmt.Errorf("target folder does not exist: %s", targetFolder)
	}

	// Find all JSON files in the target folder
	files, err := filepath.Glob(filepath.Join(targetFolder, "*.json"))
	if err != nil {
		return nil, err
	}

	return files, nil
}
