package moodle

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const restPath = "/webservice/rest/server.php"

// Client is the Moodle web-service surface the connector needs. All calls are
// single-shot: no implicit retry, each result is observed exactly once.
type Client interface {
	// TestConnection verifies endpoint and token and returns the site name.
	TestConnection(ctx context.Context) (string, error)
	// GetRoles returns the enrolment roles by ID.
	GetRoles(ctx context.Context) (map[uint]string, error)
	// GetCourseName resolves a course ID to its full name.
	GetCourseName(ctx context.Context, courseID uint) (string, error)
	// GetOrCreateUser resolves a Moodle account by email, creating one with
	// the configured default password when none exists. Reports whether the
	// account was just created.
	GetOrCreateUser(ctx context.Context, email, firstName, lastName string) (int64, bool, error)
	// Enrol enrols the user into the course with the given role. A non-nil
	// duration limits the enrolment to that many days starting now. The
	// returned message carries service-side warnings, if any.
	Enrol(ctx context.Context, userID int64, courseID, roleID uint, durationDays *uint) (string, error)
}

// Config carries the startup configuration of the web-service client.
type Config struct {
	Endpoint        string
	Token           string
	DefaultPassword string
}

// RestClient talks to the Moodle REST web service (moodlewsrestformat=json).
type RestClient struct {
	http *resty.Client
	cfg  Config
}

// NewClient creates a Moodle REST client for the given endpoint and token.
func NewClient(cfg Config) *RestClient {
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetTimeout(30 * time.Second)

	return &RestClient{http: http, cfg: cfg}
}

// call performs one web-service function call and decodes the response into
// out (which may be nil for functions returning null).
func (c *RestClient) call(ctx context.Context, wsfunction string, params map[string]string, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"wstoken":            c.cfg.Token,
			"wsfunction":         wsfunction,
			"moodlewsrestformat": "json",
		}).
		SetFormData(params).
		Post(restPath)
	if err != nil {
		return fmt.Errorf("moodle: %s: %w", wsfunction, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("moodle: %s: unexpected status %d", wsfunction, resp.StatusCode())
	}

	body := resp.Body()

	// Faults come back as HTTP 200 with an exception object.
	var fault Error
	if err := json.Unmarshal(body, &fault); err == nil && fault.Exception != "" {
		return &fault
	}

	if out == nil || string(body) == "null" {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("moodle: %s: invalid response: %w", wsfunction, err)
	}
	return nil
}

func (c *RestClient) TestConnection(ctx context.Context) (string, error) {
	var info wsSiteInfo
	if err := c.call(ctx, "core_webservice_get_site_info", nil, &info); err != nil {
		return "", err
	}
	return info.SiteName, nil
}

func (c *RestClient) GetRoles(ctx context.Context) (map[uint]string, error) {
	var resp wsRolesResponse
	if err := c.call(ctx, "local_wsgetroles_get_roles", nil, &resp); err != nil {
		return nil, err
	}

	roles := make(map[uint]string, len(resp.Roles))
	for _, role := range resp.Roles {
		roles[role.ID] = role.ShortName
	}
	return roles, nil
}

func (c *RestClient) GetCourseName(ctx context.Context, courseID uint) (string, error) {
	var resp wsCoursesResponse
	params := map[string]string{
		"field": "id",
		"value": strconv.FormatUint(uint64(courseID), 10),
	}
	if err := c.call(ctx, "core_course_get_courses_by_field", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Courses) == 0 {
		return "", nil
	}
	return resp.Courses[0].FullName, nil
}

func (c *RestClient) GetOrCreateUser(ctx context.Context, email, firstName, lastName string) (int64, bool, error) {
	var found []wsUser
	params := map[string]string{
		"field":     "email",
		"values[0]": email,
	}
	if err := c.call(ctx, "core_user_get_users_by_field", params, &found); err != nil {
		return 0, false, err
	}
	if len(found) > 0 {
		return found[0].ID, false, nil
	}

	var created []wsUser
	params = map[string]string{
		"users[0][username]":  strings.ToLower(email),
		"users[0][password]":  c.cfg.DefaultPassword,
		"users[0][firstname]": firstName,
		"users[0][lastname]":  lastName,
		"users[0][email]":     email,
	}
	if err := c.call(ctx, "core_user_create_users", params, &created); err != nil {
		return 0, false, err
	}
	if len(created) == 0 {
		return 0, false, fmt.Errorf("moodle: user creation returned no account for %s", email)
	}
	return created[0].ID, true, nil
}

func (c *RestClient) Enrol(ctx context.Context, userID int64, courseID, roleID uint, durationDays *uint) (string, error) {
	params := map[string]string{
		"enrolments[0][roleid]":   strconv.FormatUint(uint64(roleID), 10),
		"enrolments[0][userid]":   strconv.FormatInt(userID, 10),
		"enrolments[0][courseid]": strconv.FormatUint(uint64(courseID), 10),
	}
	if durationDays != nil {
		start := time.Now()
		end := start.Add(time.Duration(*durationDays) * 24 * time.Hour)
		params["enrolments[0][timestart]"] = strconv.FormatInt(start.Unix(), 10)
		params["enrolments[0][timeend]"] = strconv.FormatInt(end.Unix(), 10)
	}

	if err := c.call(ctx, "enrol_manual_enrol_users", params, nil); err != nil {
		return "", err
	}
	return "", nil
}
