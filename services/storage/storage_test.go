package storage

import "testing"

func TestObjectNaming(t *testing.T) {
	if got := objectPath("profile-pictures", "u1_1714564800000.png"); got != "profile-pictures/u1_1714564800000.png" {
		t.Errorf("objectPath = %q", got)
	}
	if got := publicID("brand-logos", "u1_1714564800000.svg"); got != "brand-logos/u1_1714564800000" {
		t.Errorf("publicID = %q", got)
	}
}

func TestFirebasePublicURLEscapesObjectPath(t *testing.T) {
	s := &FirebaseStore{bucketName: "collabhub.appspot.com"}
	want := "https://firebasestorage.googleapis.com/v0/b/collabhub.appspot.com/o/profile-pictures%2Fu1_1.png?alt=media"
	if got := s.PublicURL("profile-pictures", "u1_1.png"); got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
}
