package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contacts-api/pkg/model"
)

// Usage example on the command line:
// > go run main.go --url=http://localhost:8080 --sizes=1000,5000
func main() {
	var baseURL string
	var sizes []int
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Measures the average latency of the contacts API in microseconds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchmark(baseURL, sizes)
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "base URL of the contacts service")
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{1000, 5000, 10000, 50000, 100000}, "numbers of elements per round")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func benchmark(baseURL string, sizes []int) error {
	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	contact := model.Contact{
		FirstName:     "Marcus",
		LastName:      "Antonius",
		Email:         "marcus@example.com",
		FavoriteColor: "purple",
		Birthday:      "01/14/0083",
	}
	changed := contact
	changed.FavoriteColor = "gold"
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		ids := make([]string, 0, loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				id, d, err := sendPostRequest(baseURL, contact)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			body, err := json.Marshal(changed)
			if err != nil {
				return err
			}
			f := func(id string) (int64, error) {
				return sendIDRequest(baseURL, id, http.MethodPut, body)
			}
			if err := callInLoop(ids, f); err != nil {
				return err
			}
		}
		{
			// GET requests
			f := func(id string) (int64, error) {
				return sendIDRequest(baseURL, id, http.MethodGet, nil)
			}
			if err := callInLoop(ids, f); err != nil {
				return err
			}
		}
		{
			// DELETE requests
			f := func(id string) (int64, error) {
				return sendIDRequest(baseURL, id, http.MethodDelete, nil)
			}
			if err := callInLoop(ids, f); err != nil {
				return err
			}
		}
		fmt.Println()
	}
	return nil
}

// callInLoop calls f once for every id in random order and prints the average duration.
func callInLoop(ids []string, f func(id string) (int64, error)) error {
	shuffled := append([]string(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var duration int64
	for _, id := range shuffled {
		d, err := f(id)
		if err != nil {
			return err
		}
		duration += d
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
	return nil
}

func sendPostRequest(baseURL string, contact model.Contact) (string, int64, error) {
	body, err := json.Marshal(contact)
	if err != nil {
		return "", 0, err
	}
	resBody, status, duration, err := sendRequest(http.MethodPost, baseURL+"/contacts", body)
	if err != nil {
		return "", 0, err
	}
	if status != http.StatusCreated {
		return "", 0, fmt.Errorf("unexpected status %d for POST: %s", status, resBody)
	}
	var created model.Created
	if err := json.Unmarshal(resBody, &created); err != nil {
		return "", 0, fmt.Errorf("could not unmarshal JSON: %w", err)
	}
	return created.InsertedId, duration, nil
}

func sendIDRequest(baseURL string, id string, method string, body []byte) (int64, error) {
	_, _, duration, err := sendRequest(method, baseURL+"/contacts/"+id, body)
	return duration, err
}

func sendRequest(method string, requestURL string, body []byte) ([]byte, int, int64, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("error making http request: %w", err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("could not read response body: %w", err)
	}
	after := time.Now().UnixNano()
	return resBody, res.StatusCode, after - before, nil
}
