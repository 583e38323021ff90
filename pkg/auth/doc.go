// Package auth keeps the signed-in user as an observable state.
//
// UserStore turns Login and Logout requests into a stream of users with
// SwitchMap, so a slow login that is overtaken by a newer request or by a
// logout never overwrites the newer outcome. Failures go to a Reporter.
//
//	users := auth.NewUserStore(authenticator, auth.WithReporter(messages.Default()))
//	defer users.Close()
//
//	users.LoggedIn().Subscribe(stream.NextFunc(func(in bool) {
//		toggleMenu(in)
//	}))
//
//	if err := users.Login(ctx, auth.Credentials{Email: email, Password: password}); err != nil {
//		return err // empty credentials
//	}
//
// MemoryAuthenticator is an in-process Authenticator with bcrypt hashed
// passwords. AuthenticatorFunc adapts a blocking call to a remote service.
package auth
