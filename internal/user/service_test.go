package user

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/MikeMC777/cafe-ecom/internal/auth"
	pb "github.com/MikeMC777/cafe-ecom/internal/userpb"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemRepo())

	u, err := svc.Register(ctx, RegisterRequest{FullName: " Rina ", Email: "Rina@Example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != auth.RoleCustomer || u.Email != "rina@example.com" || u.FullName != "Rina" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "secret123" {
		t.Fatal("password stored in clear")
	}

	if _, err := svc.Register(ctx, RegisterRequest{FullName: "Other", Email: "rina@example.com", Password: "secret123"}); !errors.Is(err, ErrAlreadyExist) {
		t.Fatalf("duplicate email: %v", err)
	}

	got, err := svc.Authenticate(ctx, "RINA@example.com", "secret123")
	if err != nil || got.ID != u.ID {
		t.Fatalf("Authenticate: %+v %v", got, err)
	}
	if _, err := svc.Authenticate(ctx, "rina@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", err)
	}
}

func TestUpdateProfile_KeepsEmptyFields(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemRepo())
	u, _ := svc.Register(ctx, RegisterRequest{FullName: "Rina", Email: "rina@example.com", Password: "secret123"})

	got, err := svc.UpdateProfile(ctx, u.ID, ProfileRequest{Address: "Jl. Kopi 1", Password: "newsecret"})
	if err != nil {
		t.Fatal(err)
	}
	if got.FullName != "Rina" || got.Address != "Jl. Kopi 1" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if _, err := svc.Authenticate(ctx, "rina@example.com", "newsecret"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, "missing", ProfileRequest{FullName: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: %v", err)
	}
}

func TestAdminOperations(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemRepo())

	admin, err := svc.Create(ctx, AdminUserRequest{FullName: "Boss", Email: "boss@example.com", Password: "secret123", Role: auth.RoleAdmin})
	if err != nil || admin.Role != auth.RoleAdmin {
		t.Fatalf("Create: %+v %v", admin, err)
	}
	if _, err := svc.Create(ctx, AdminUserRequest{FullName: "No password"}); err == nil {
		t.Fatal("missing fields should fail")
	}

	u, err := svc.AdminUpdate(ctx, admin.ID, AdminUserRequest{Role: auth.RoleCustomer})
	if err != nil || u.Role != auth.RoleCustomer || u.FullName != "Boss" {
		t.Fatalf("AdminUpdate: %+v %v", u, err)
	}

	if err := svc.ResetPassword(ctx, admin.ID, "another1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(ctx, "boss@example.com", "another1"); err != nil {
		t.Fatalf("reset password not applied: %v", err)
	}

	list, _ := svc.List(ctx, 10, 0)
	if len(list) != 1 {
		t.Fatalf("list=%d", len(list))
	}

	if err := svc.Delete(ctx, admin.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, admin.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func dialDirectory(t *testing.T, svc *Service) pb.UserDirectoryClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	pb.RegisterUserDirectoryServer(srv, svc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return pb.NewUserDirectoryClient(conn)
}

func TestUserDirectory_OverGRPC(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemRepo())
	u, _ := svc.Register(ctx, RegisterRequest{FullName: "Rina", Email: "rina@example.com", Password: "secret123"})
	client := dialDirectory(t, svc)

	ok, err := client.ValidateUser(ctx, wrapperspb.String(u.ID))
	if err != nil || !ok.GetValue() {
		t.Fatalf("ValidateUser(existing)=%v %v", ok, err)
	}
	ok, err = client.ValidateUser(ctx, wrapperspb.String("ghost"))
	if err != nil || ok.GetValue() {
		t.Fatalf("ValidateUser(unknown)=%v %v", ok, err)
	}
	if _, err := client.ValidateUser(ctx, wrapperspb.String("")); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("empty id: %v", err)
	}

	st, err := client.GetUser(ctx, wrapperspb.String(u.ID))
	if err != nil {
		t.Fatal(err)
	}
	if st.GetFields()["email"].GetStringValue() != "rina@example.com" {
		t.Fatalf("GetUser=%v", st)
	}
	if _, ok := st.GetFields()["passwordHash"]; ok {
		t.Fatal("password hash leaked")
	}
	if _, err := client.GetUser(ctx, wrapperspb.String("ghost")); status.Code(err) != codes.NotFound {
		t.Fatalf("GetUser(unknown): %v", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemRepo())
	for i := 0; i < 2; i++ {
		if err := svc.EnsureAdmin(ctx, "Root@Example.com", "secret123"); err != nil {
			t.Fatal(err)
		}
	}
	list, _ := svc.List(ctx, 10, 0)
	if len(list) != 1 || list[0].Role != auth.RoleAdmin {
		t.Fatalf("users=%+v", list)
	}
	if err := svc.EnsureAdmin(ctx, "", ""); err != nil {
		t.Fatalf("empty bootstrap should be a no-op: %v", err)
	}
}
