// --------------------------------------------------------------------------------
// Author: Thomas F McGeehan V
//
// This file is part of a software project developed by Thomas F McGeehan V.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// For more information about the MIT License, please visit:
// https://opensource.org/licenses/MIT
//
// Acknowledgment appreciated but not required.
// --------------------------------------------------------------------------------

package utils

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads a local .env file (e.g. AWS credentials)
// into the process environment before the object-store/Glue/Hive SDKs
// read it, the same best-effort pattern the teacher's
// pkg/common/utils/env.go uses: missing or unreadable is a warning, not
// a fatal error, since a real deployment supplies credentials some other
// way (instance role, injected secrets).
func LoadEnv() {
	envPath := os.Getenv("HIVESYNC_ENV_PATH")
	if envPath == "" {
		envPath = ".env"
	}

	absEnvPath, err := filepath.Abs(envPath)
	if err != nil {
		log.Printf("Error resolving absolute path for .env file: %v", err)
		return
	}

	if err := godotenv.Load(absEnvPath); err != nil {
		log.Printf("No .env file loaded from %s: %v", absEnvPath, err)
	} else {
		log.Printf("Loaded .env file from %s", absEnvPath)
	}
}
