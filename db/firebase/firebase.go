package firebase

import (
	"context"
	"movie_curator/configs"
	"movie_curator/model"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseApp struct {
	app       *firebase.App
	firestore *firestore.Client
	auth      *auth.Client
}

func NewFirebaseApp() (*FirebaseApp, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var opts []option.ClientOption
	if file := configs.GetConfigs().FirebaseCredentialsFile; file != "" {
		opts = append(opts, option.WithCredentialsFile(file))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: configs.GetConfigs().FirebaseProjectId,
	}, opts...)
	if err != nil {
		return nil, err
	}

	// firestore and auth clients outlive the init context
	firestoreClient, err := app.Firestore(context.Background())
	if err != nil {
		return nil, err
	}
	authClient, err := app.Auth(context.Background())
	if err != nil {
		_ = firestoreClient.Close()
		return nil, err
	}

	return &FirebaseApp{
		app:       app,
		firestore: firestoreClient,
		auth:      authClient,
	}, nil
}

func (f *FirebaseApp) Close() {
	_ = f.firestore.Close()
}

func (f *FirebaseApp) GetFirestore() *firestore.Client {
	return f.firestore
}

func (f *FirebaseApp) GetAuth() *auth.Client {
	return f.auth
}

// VerifyIdToken checks a firebase id token. The custom claim "admin" grants
// access to the admin routes.
func (f *FirebaseApp) VerifyIdToken(ctx context.Context, idToken string) (*model.Identity, error) {
	token, err := f.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	isAdmin, _ := token.Claims["admin"].(bool)
	return &model.Identity{UserId: token.UID, IsAdmin: isAdmin}, nil
}
