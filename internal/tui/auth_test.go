package tui

import (
	"context"
	"testing"

	"github.com/MKhiriev/pilvi-pass/internal/app"
	"github.com/MKhiriev/pilvi-pass/internal/service"
	"github.com/MKhiriev/pilvi-pass/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	err     error
	signIns []models.SignInForm
	signUps []models.SignInForm
}

func (f *fakeAuth) SignIn(_ context.Context, form models.SignInForm) (models.User, error) {
	f.signIns = append(f.signIns, form)
	return models.User{Email: form.Email}, f.err
}

func (f *fakeAuth) SignUp(_ context.Context, form models.SignInForm) (models.User, error) {
	f.signUps = append(f.signUps, form)
	return models.User{Email: form.Email}, f.err
}

func (f *fakeAuth) SignOut(context.Context) {}

func typeInto(m *AuthModel, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestAuthModel_RequiresEmailAndPassword(t *testing.T) {
	auth := &fakeAuth{}
	m := NewAuthModel(context.Background(), auth, authModeSignIn)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, app.MsgFillEmailPassword, m.errMsg)
	assert.Empty(t, auth.signIns)
}

func TestAuthModel_SignIn(t *testing.T) {
	auth := &fakeAuth{}
	m := NewAuthModel(context.Background(), auth, authModeSignIn)

	typeInto(m, " alice@example.com ")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeInto(m, "pw")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)

	msg := cmd()
	result, ok := msg.(authResultMsg)
	require.True(t, ok)
	assert.NoError(t, result.err)
	assert.Equal(t, []models.SignInForm{{Email: "alice@example.com", Password: "pw"}}, auth.signIns)
	assert.Empty(t, auth.signUps)
}

func TestAuthModel_ToggleToSignUp(t *testing.T) {
	auth := &fakeAuth{}
	m := NewAuthModel(context.Background(), auth, authModeSignIn)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Contains(t, m.View(), "SIGN UP")

	typeInto(m, "new@example.com")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeInto(m, "secret1")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd()
	assert.Len(t, auth.signUps, 1)
}

func TestAuthModel_ErrorShownAndPasswordCleared(t *testing.T) {
	m := NewAuthModel(context.Background(), &fakeAuth{}, authModeSignIn)
	m.inputs[1].SetValue("wrong")
	m.submitting = true

	m.Update(authResultMsg{err: service.ErrInvalidLoginCredentials})

	assert.False(t, m.submitting)
	assert.Equal(t, app.MsgInvalidLoginCredentials, m.errMsg)
	assert.Empty(t, m.inputs[1].Value())
}

func TestRootModel_FinishesOnSuccessfulAuth(t *testing.T) {
	pages := map[string]tea.Model{
		pageMenu:   NewMenuModel(),
		pageSignIn: NewAuthModel(context.Background(), &fakeAuth{}, authModeSignIn),
	}
	root := NewRootModel(pages, pageMenu, models.NewAppBuildInfo("", "", ""))

	next, _ := root.Update(authResultMsg{email: "alice@example.com"})
	result := next.(RootModel)
	assert.True(t, result.signedIn)
	assert.False(t, result.quitByUser)
}

func TestRootModel_Navigation(t *testing.T) {
	pages := map[string]tea.Model{
		pageMenu:   NewMenuModel(),
		pageSignIn: NewAuthModel(context.Background(), &fakeAuth{}, authModeSignIn),
		pageSignUp: NewAuthModel(context.Background(), &fakeAuth{}, authModeSignUp),
	}
	root := NewRootModel(pages, pageMenu, models.NewAppBuildInfo("1.0.0", "", ""))

	next, _ := root.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	root = next.(RootModel)
	assert.Contains(t, root.View(), "1.0.0")

	next, _ = root.Update(tea.KeyMsg{Type: tea.KeyEsc})
	root = next.(RootModel)

	next, _ = root.Update(NavigateTo{Page: pageSignUp})
	root = next.(RootModel)
	assert.Contains(t, root.View(), "SIGN UP")

	next, _ = root.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, next.(RootModel).quitByUser)
}

func TestMenuModel_Navigate(t *testing.T) {
	m := NewMenuModel()

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateTo{Page: pageSignUp}, cmd())
}
