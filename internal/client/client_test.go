package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vilo-admin/internal/models"
)

func TestGet_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"count":1,"data":[{"id":1,"name":"Jean","email":"jean@x.com","service":"Support","message":"Aide","status":"nouveau"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	var list models.ContactList
	if err := c.Get(context.Background(), "/admin/contacts", &list); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !list.Success || list.Count != 1 || len(list.Data) != 1 {
		t.Fatalf("unexpected envelope: %+v", list)
	}
	if list.Data[0].Name != "Jean" || list.Data[0].Status != "nouveau" {
		t.Errorf("unexpected contact: %+v", list.Data[0])
	}
}

func TestPut_SendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Write([]byte(`{"success":true,"message":"ok","data":{"id":1,"status":"traité"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	var resp models.UpdateResponse
	err := c.Put(context.Background(), "/admin/contacts/1", map[string]string{"status": "traité"}, &resp)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if resp.Data.Status != "traité" {
		t.Errorf("status = %q", resp.Data.Status)
	}
}

func TestErrorResponse_BecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Contact non trouvé"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	err := c.Get(context.Background(), "/admin/contacts/99", nil)
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if ae.StatusCode != 404 || ae.Message != "Contact non trouvé" {
		t.Errorf("unexpected APIError: %+v", ae)
	}
	if StatusCode(err) != 404 {
		t.Errorf("StatusCode(err) = %d", StatusCode(err))
	}
}

func TestNetworkError_HasNoStatus(t *testing.T) {
	c := New("http://127.0.0.1:1", "")
	err := c.Get(context.Background(), "/admin/contacts", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if StatusCode(err) != 0 {
		t.Errorf("network error should carry no HTTP status, got %d", StatusCode(err))
	}
}
