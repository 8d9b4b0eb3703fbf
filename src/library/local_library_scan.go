package library

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// Scan scans all of the folders in paths for media files. New files will be
// added to the database.
func (lib *LocalLibrary) Scan() {
	// Make sure there are no other scans working at the moment.
	lib.WaitScan()

	start := time.Now()
	lib.mediaChan = make(chan string, 100)

	lib.scanWG.Add(1)
	go lib.databaseWriter(lib.mediaChan, &lib.scanWG)

	initialWait := lib.ScanConfig.InitialWait
	if !lib.fastScan && initialWait > 0 {
		log.Printf("Pausing initial library scan for %s as configured", initialWait)
		time.Sleep(initialWait)
	}

	lib.initializeWatcher()

	for _, path := range lib.paths {
		lib.walkWG.Add(1)
		go lib.scanPath(path, lib.mediaChan)
	}

	lib.scanWG.Add(1)
	go func() {
		defer func() {
			log.Printf("Walking took %s", time.Since(start))
			lib.scanWG.Done()
		}()
		lib.walkWG.Wait()
		close(lib.mediaChan)
	}()

	go func() {
		lib.WaitScan()
		log.Printf("Scanning took %s", time.Since(start))
	}()
}

// WaitScan blocks the current goroutine until the scan has been finished.
func (lib *LocalLibrary) WaitScan() {
	lib.scanWG.Wait()
}

// databaseWriter reads from the media channel and inserts into the database
// every file received.
func (lib *LocalLibrary) databaseWriter(media <-chan string, wg *sync.WaitGroup) {
	defer wg.Done()

	for filename := range media {
		if err := lib.AddMedia(filename); err != nil {
			log.Printf("Error adding %s: %s", filename, err)
		}
	}
}

// This is the goroutine which actually scans a library path. It ignores
// everything but the list of supported media files. Sends every suitable
// file into the media channel.
func (lib *LocalLibrary) scanPath(scannedPath string, media chan<- string) {
	start := time.Now()

	defer func() {
		log.Printf("Walking %s took %s", scannedPath, time.Since(start))
		lib.walkWG.Done()
	}()

	filesPerOperation := lib.ScanConfig.FilesPerOperation
	sleepPerOperation := lib.ScanConfig.SleepPerOperation

	var scannedFiles int64

	walkFunc := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Println(err)
			return nil
		}

		if !info.IsDir() && isSupportedFormat(path) {
			media <- path
		}

		if lib.watch != nil && info.IsDir() {
			lib.watch.Watch(path)
		}

		scannedFiles++

		if !lib.fastScan && filesPerOperation > 0 &&
			scannedFiles >= filesPerOperation && sleepPerOperation > 0 {

			log.Printf("Scan limit of %d files reached for [%s], sleeping for %s",
				filesPerOperation, scannedPath, sleepPerOperation)

			time.Sleep(sleepPerOperation)
			scannedFiles = 0
		}

		return nil
	}

	if err := afero.Walk(lib.fs, scannedPath, walkFunc); err != nil {
		log.Println(err)
	}
}
