package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ecovekt/backend/internal/domain/entity"
	"github.com/ecovekt/backend/internal/integration/adapters"
	"github.com/ecovekt/backend/internal/integration/persistence"
)

func (t *testContext) theAPIServerIsRunning() error {
	for i := 0; i < 50; i++ {
		resp, err := t.client.Get(t.uri + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return errors.New("API server did not become healthy")
}

func (t *testContext) theCurrentTimeIs(value string) error {
	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", value, err)
	}
	t.timeMock.SetCurrentTime(at)
	return nil
}

func (t *testContext) iAmSignedInAs(userID string) error {
	token, err := t.tokens().GenerateAccessToken(context.Background(), userID, userID+"@example.com")
	if err != nil {
		return err
	}
	t.accessToken = token
	t.currentUserID = userID
	return nil
}

func (t *testContext) iAmSignedInWithAnExpiredToken(userID string) error {
	claims := &adapters.CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Issuer:    "ecovekt",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(suite.injector.Config.JWT.Secret))
	if err != nil {
		return err
	}
	t.accessToken = token
	t.currentUserID = userID
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

// theCollectionContainsTheDocument writes a document straight through the
// repository, the way an administrator seeds the catalog.
func (t *testContext) theCollectionContainsTheDocument(collection, id string, content *godog.DocString) error {
	var fields entity.Fields
	if err := json.Unmarshal([]byte(content.Content), &fields); err != nil {
		return err
	}
	repo := persistence.NewDocumentRepositoryWithClock(t.db.DbConn, t.timeMock)
	_, err := repo.SetDocument(context.Background(), collection, id, fields, false)
	return err
}

func (t *testContext) iHaveLoggedKgOf(weight, title string) error {
	body, err := json.Marshal(map[string]any{"waste_title": title, "weight": weight})
	if err != nil {
		return err
	}
	if err := t.executeRequest(http.MethodPost, "/api/v1/pending/entries", body); err != nil {
		return err
	}
	return t.theResponseStatusShouldBe(http.StatusCreated)
}

func (t *testContext) theDocumentStoreIsUnavailable() error {
	return t.db.DropDocuments()
}

func (t *testContext) theDocumentStoreIsAvailableAgain() error {
	return t.db.ClearDB()
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{user_id}}", t.currentUserID)
	content = strings.ReplaceAll(content, "{{group_key}}", t.lastGroupKey)
	if len(t.documentIDs) > 0 {
		content = strings.ReplaceAll(content, "{{document_id}}", t.documentIDs[len(t.documentIDs)-1])
	}
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.uri+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Remember ids and group keys so later steps can refer to them.
	if id, ok := responseBody["id"].(string); ok && id != "" {
		t.documentIDs = append(t.documentIDs, id)
	}
	if ids, ok := responseBody["document_ids"].([]any); ok {
		for _, id := range ids {
			if s, ok := id.(string); ok {
				t.documentIDs = append(t.documentIDs, s)
			}
		}
	}
	if groups, ok := responseBody["groups"].([]any); ok && len(groups) > 0 {
		if group, ok := groups[len(groups)-1].(map[string]any); ok {
			if key, ok := group["key"].(string); ok {
				t.lastGroupKey = key
			}
		}
	}
	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) responseObject() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	_, err := t.responseObject()
	return err
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseShouldNotContainTheField(field string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	if value := getFieldValue(body, field); value != nil {
		return fmt.Errorf("field '%s' should be absent, got %v", field, value)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, count int) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, body)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d: %v", field, count, len(items), items)
	}
	return nil
}

func (t *testContext) theDbShouldContainDocumentsInTheCollection(quantity int, collection string) error {
	docs, err := t.db.Documents(collection)
	if err != nil {
		return err
	}
	if len(docs) != quantity {
		return fmt.Errorf("expected %d documents in '%s', got %d", quantity, collection, len(docs))
	}
	return nil
}

// theDbShouldContainDocumentsWithTheValues counts the documents whose fields
// include every key of the given JSON object with an equal value.
func (t *testContext) theDbShouldContainDocumentsWithTheValues(quantity int, collection string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	docs, err := t.db.Documents(collection)
	if err != nil {
		return err
	}

	count := 0
	for _, doc := range docs {
		if fieldsMatch(doc.Fields, criteria) {
			count++
		}
	}
	if count != quantity {
		return fmt.Errorf("expected %d documents in '%s' with criteria %v, got %d", quantity, collection, criteria, count)
	}
	return nil
}

func fieldsMatch(fields map[string]any, criteria map[string]any) bool {
	for key, want := range criteria {
		got, ok := fields[key]
		if !ok || fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func getFieldValue(object any, dotSeparatedField string) any {
	var field = object
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}
	return field
}
