package moodle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer serves the REST endpoint and dispatches on wsfunction, the way
// the real service multiplexes every call over one URL.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, restPath, r.URL.Path)
		require.Equal(t, "test-token", r.URL.Query().Get("wstoken"))
		require.Equal(t, "json", r.URL.Query().Get("moodlewsrestformat"))

		fn := r.URL.Query().Get("wsfunction")
		handler, ok := handlers[fn]
		require.True(t, ok, "unexpected wsfunction %q", fn)
		handler(w, r)
	}))
}

func newTestClient(server *httptest.Server) *RestClient {
	return NewClient(Config{
		Endpoint:        server.URL,
		Token:           "test-token",
		DefaultPassword: "Changeme1!",
	})
}

func TestTestConnection(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"core_webservice_get_site_info": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"sitename":"Campus"}`))
		},
	})
	defer server.Close()

	name, err := newTestClient(server).TestConnection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Campus", name)
}

func TestTestConnectionFault(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"core_webservice_get_site_info": func(w http.ResponseWriter, r *http.Request) {
			// Faults are HTTP 200 with an exception body.
			w.Write([]byte(`{"exception":"moodle_exception","errorcode":"invalidtoken","message":"Invalid token"}`))
		},
	})
	defer server.Close()

	_, err := newTestClient(server).TestConnection(context.Background())
	require.Error(t, err)

	var fault *Error
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "invalidtoken", fault.ErrorCode)
	assert.Contains(t, err.Error(), "Invalid token")
}

func TestGetRoles(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"local_wsgetroles_get_roles": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"roles":[{"id":5,"shortname":"student","name":"Student"},{"id":3,"shortname":"teacher","name":"Teacher"}]}`))
		},
	})
	defer server.Close()

	roles, err := newTestClient(server).GetRoles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{5: "student", 3: "teacher"}, roles)
}

func TestGetCourseName(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"core_course_get_courses_by_field": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "id", r.PostForm.Get("field"))
			assert.Equal(t, "10", r.PostForm.Get("value"))
			w.Write([]byte(`{"courses":[{"id":10,"fullname":"Go Fundamentals"}]}`))
		},
	})
	defer server.Close()

	name, err := newTestClient(server).GetCourseName(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Go Fundamentals", name)
}

func TestGetCourseNameUnknownCourse(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"core_course_get_courses_by_field": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"courses":[]}`))
		},
	})
	defer server.Close()

	name, err := newTestClient(server).GetCourseName(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestGetOrCreateUserExisting(t *testing.T) {
	created := false
	server := newTestServer(t, map[string]http.HandlerFunc{
		"core_user_get_users_by_field": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "email", r.PostForm.Get("field"))
			assert.Equal(t, "jane@example.com", r.PostForm.Get("values[0]"))
			w.Write([]byte(`[{"id":9001,"username":"jane@example.com","email":"jane@example.com"}]`))
		},
		"core_user_create_users": func(w http.ResponseWriter, r *http.Request) {
			created = true
		},
	})
	defer server.Close()

	id, isNew, err := newTestClient(server).GetOrCreateUser(context.Background(), "jane@example.com", "Jane", "Doe")
	require.NoError(t, err)
	assert.Equal(t, int64(9001), id)
	assert.False(t, isNew)
	assert.False(t, created, "an existing account must not be recreated")
}

func TestGetOrCreateUserCreates(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"core_user_get_users_by_field": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
		"core_user_create_users": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "jane@example.com", r.PostForm.Get("users[0][username]"), "username is the lowercased email")
			assert.Equal(t, "Changeme1!", r.PostForm.Get("users[0][password]"))
			assert.Equal(t, "Jane", r.PostForm.Get("users[0][firstname]"))
			assert.Equal(t, "Doe", r.PostForm.Get("users[0][lastname]"))
			w.Write([]byte(`[{"id":9002,"username":"jane@example.com"}]`))
		},
	})
	defer server.Close()

	id, isNew, err := newTestClient(server).GetOrCreateUser(context.Background(), "Jane@Example.com", "Jane", "Doe")
	require.NoError(t, err)
	assert.Equal(t, int64(9002), id)
	assert.True(t, isNew)
}

func TestGetOrCreateUserCreationFault(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"core_user_get_users_by_field": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
		"core_user_create_users": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"exception":"invalid_parameter_exception","errorcode":"invalidparameter","message":"Email address already exists"}`))
		},
	})
	defer server.Close()

	_, _, err := newTestClient(server).GetOrCreateUser(context.Background(), "jane@example.com", "Jane", "Doe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email address already exists")
}

func TestEnrol(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"enrol_manual_enrol_users": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "5", r.PostForm.Get("enrolments[0][roleid]"))
			assert.Equal(t, "9001", r.PostForm.Get("enrolments[0][userid]"))
			assert.Equal(t, "10", r.PostForm.Get("enrolments[0][courseid]"))
			assert.Empty(t, r.PostForm.Get("enrolments[0][timestart]"), "unlimited enrolment carries no time bounds")
			// Success is a JSON null.
			w.Write([]byte(`null`))
		},
	})
	defer server.Close()

	msg, err := newTestClient(server).Enrol(context.Background(), 9001, 10, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestEnrolWithDuration(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"enrol_manual_enrol_users": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			assert.NotEmpty(t, r.PostForm.Get("enrolments[0][timestart]"))
			assert.NotEmpty(t, r.PostForm.Get("enrolments[0][timeend]"))
			w.Write([]byte(`null`))
		},
	})
	defer server.Close()

	days := uint(90)
	_, err := newTestClient(server).Enrol(context.Background(), 9001, 10, 5, &days)
	require.NoError(t, err)
}

func TestEnrolFault(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"enrol_manual_enrol_users": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"exception":"moodle_exception","errorcode":"wsusercannotbeenrolled","message":"User cannot be enrolled"}`))
		},
	})
	defer server.Close()

	_, err := newTestClient(server).Enrol(context.Background(), 9001, 10, 5, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User cannot be enrolled")
}
