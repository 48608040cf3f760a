package users

type Config struct {
	SuperAdminLogin    string
	SuperAdminPassword string
}
