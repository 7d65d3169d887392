package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

const baseURL = "http://localhost:8080"

// Drives the full user journey against a running server:
// register, login, quote, buy, portfolio, sell, history, logout.
func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	username := fmt.Sprintf("e2e-%d", time.Now().UnixNano())

	checkGet(client, "/healthz", 200)

	postForm(client, "/register", url.Values{
		"username":     {username},
		"password":     {"secret"},
		"confirmation": {"secret"},
	}, 200) // lands on /login after redirect

	postForm(client, "/login", url.Values{
		"username": {username},
		"password": {"secret"},
	}, 200) // lands on / after redirect

	postForm(client, "/quote", url.Values{"symbol": {"AAPL"}}, 200)
	postForm(client, "/buy", url.Values{"symbol": {"AAPL"}, "shares": {"2"}}, 200)
	checkGet(client, "/", 200)
	postForm(client, "/sell", url.Values{"symbol": {"AAPL"}, "shares": {"2"}}, 200)
	checkGet(client, "/history", 200)
	checkGet(client, "/logout", 200)

	fmt.Println("ALL TESTS PASSED")
}

func checkGet(client *http.Client, path string, expectedStatus int) {
	fmt.Printf("Testing GET %s...\n", path)
	resp, err := client.Get(baseURL + path)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(body))
	}
}

func postForm(client *http.Client, path string, form url.Values, expectedStatus int) {
	fmt.Printf("Testing POST %s...\n", path)
	resp, err := client.PostForm(baseURL+path, form)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(body))
	}
}
