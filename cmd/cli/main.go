// CLI del portal BreathTech: registro, sesión, perfil y diagnósticos desde la
// terminal. La sesión autenticada se guarda en ~/.breathtech/session.json y se
// rehidrata en cada invocación; un archivo corrupto vuelve a sesión anónima.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/baselshm/breathtech-api/internal/application/dto"
	"github.com/baselshm/breathtech-api/internal/client"
	"github.com/baselshm/breathtech-api/internal/domain/entity"
)

const usage = `uso: breathtech [-server URL] <comando> [flags]

comandos:
  register   crear cuenta (-name -age -sex -email -password -role [-weight -height -avatar])
  login      iniciar sesión (-email -password)
  whoami     mostrar la sesión actual
  update     actualizar perfil (solo los flags presentes se tocan)
  avatar     reemplazar foto de perfil (-file)
  delete     eliminar la cuenta autenticada
  predict    diagnóstico pulmonar (-file audio.wav [-field k=v ...])
  skin       diagnóstico de piel (-file foto.jpg)
  users      listar cuentas (solo doctores)
  logout     cerrar sesión
`

func main() {
	serverURL := flag.String("server", "http://localhost:5000", "URL del API")
	sessionPath := flag.String("session", "", "archivo de sesión (default ~/.breathtech/session.json)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	store, err := client.NewSessionStore(*sessionPath)
	if err != nil {
		fatal(err)
	}
	app := &cliApp{
		api:     client.NewAPI(*serverURL),
		store:   store,
		session: store.Load(),
	}

	ctx := context.Background()
	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := app.run(ctx, cmd, args); err != nil {
		fatal(err)
	}
}

type cliApp struct {
	api     *client.API
	store   *client.SessionStore
	session *client.Session
}

func (a *cliApp) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "whoami":
		return a.whoami()
	case "update":
		return a.update(ctx, args)
	case "avatar":
		return a.avatar(ctx, args)
	case "delete":
		return a.deleteAccount(ctx)
	case "predict":
		return a.predict(ctx, args)
	case "skin":
		return a.skin(ctx, args)
	case "users":
		return a.users(ctx)
	case "logout":
		return a.store.Clear()
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("comando desconocido: %s", cmd)
	}
}

func (a *cliApp) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "nombre completo")
	age := fs.Int("age", 0, "edad")
	sex := fs.String("sex", "", "Male | Female")
	weight := fs.String("weight", "", "peso en kg (opcional)")
	height := fs.String("height", "", "estatura en cm (opcional)")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	role := fs.String("role", entity.RolePatient, "patient | doctor")
	avatar := fs.String("avatar", "", "ruta a la foto de perfil (opcional)")
	_ = fs.Parse(args)

	user, err := a.api.Register(ctx, dto.RegisterRequest{
		FullName: *name,
		Age:      *age,
		Sex:      *sex,
		Weight:   *weight,
		Height:   *height,
		Email:    *email,
		Password: *password,
		Role:     *role,
	}, *avatar)
	if err != nil {
		return err
	}
	fmt.Printf("cuenta creada: %s <%s>\n", user.FullName, user.Email)
	return nil
}

func (a *cliApp) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	out, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	a.session = &client.Session{Token: out.Token, User: &out.User}
	if err := a.store.Save(a.session); err != nil {
		return err
	}
	fmt.Printf("sesión iniciada como %s (%s)\n", out.User.FullName, out.User.Role)
	return nil
}

func (a *cliApp) whoami() error {
	if !a.session.Authenticated() {
		fmt.Println("sin sesión")
		return nil
	}
	return printJSON(a.session.User)
}

func (a *cliApp) update(ctx context.Context, args []string) error {
	if !a.session.Authenticated() {
		return fmt.Errorf("inicia sesión primero")
	}
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	name := fs.String("name", "", "nombre completo")
	age := fs.Int("age", 0, "edad")
	weight := fs.String("weight", "", "peso en kg")
	height := fs.String("height", "", "estatura en cm")
	conditions := fs.String("conditions", "", "condiciones médicas")
	removeAvatar := fs.Bool("remove-avatar", false, "volver al avatar por defecto")
	_ = fs.Parse(args)

	// Solo lo que el usuario tecleó entra al patch.
	var in dto.UpdateProfileRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			in.FullName = name
		case "age":
			in.Age = age
		case "weight":
			in.Weight = weight
		case "height":
			in.Height = height
		case "conditions":
			in.Conditions = conditions
		case "remove-avatar":
			in.RemoveAvatar = *removeAvatar
		}
	})

	user, err := a.api.UpdateProfile(ctx, a.session.Token, in)
	if err != nil {
		return err
	}
	return a.refreshSession(user)
}

func (a *cliApp) avatar(ctx context.Context, args []string) error {
	if !a.session.Authenticated() {
		return fmt.Errorf("inicia sesión primero")
	}
	fs := flag.NewFlagSet("avatar", flag.ExitOnError)
	file := fs.String("file", "", "ruta a la nueva foto")
	_ = fs.Parse(args)

	user, err := a.api.SetAvatar(ctx, a.session.Token, *file)
	if err != nil {
		return err
	}
	return a.refreshSession(user)
}

func (a *cliApp) deleteAccount(ctx context.Context) error {
	if !a.session.Authenticated() {
		return fmt.Errorf("inicia sesión primero")
	}
	if err := a.api.DeleteAccount(ctx, a.session.Token, a.session.User.Email); err != nil {
		return err
	}
	fmt.Println("cuenta eliminada")
	return a.store.Clear()
}

func (a *cliApp) predict(ctx context.Context, args []string) error {
	if err := a.requireDoctor(); err != nil {
		return err
	}
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	file := fs.String("file", "", "ruta al audio")
	var fields fieldFlags
	fs.Var(&fields, "field", "campo auxiliar k=v (repetible)")
	_ = fs.Parse(args)

	result, err := a.api.Predict(ctx, a.session.Token, *file, fields.values)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (a *cliApp) skin(ctx context.Context, args []string) error {
	if err := a.requireDoctor(); err != nil {
		return err
	}
	fs := flag.NewFlagSet("skin", flag.ExitOnError)
	file := fs.String("file", "", "ruta a la imagen")
	_ = fs.Parse(args)

	result, err := a.api.SkinDiagnose(ctx, a.session.Token, *file)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func (a *cliApp) users(ctx context.Context) error {
	if err := a.requireDoctor(); err != nil {
		return err
	}
	users, err := a.api.ListUsers(ctx, a.session.Token)
	if err != nil {
		return err
	}
	return printJSON(users)
}

// requireDoctor replica el gating de la UI original, aunque el servidor lo
// vuelve a verificar por su cuenta.
func (a *cliApp) requireDoctor() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("inicia sesión primero")
	}
	if a.session.User.Role != entity.RoleDoctor {
		return fmt.Errorf("los pacientes solo acceden al chat general")
	}
	return nil
}

func (a *cliApp) refreshSession(user *dto.UserResponse) error {
	a.session.User = user
	if err := a.store.Save(a.session); err != nil {
		return err
	}
	return printJSON(user)
}

// fieldFlags acumula pares k=v repetibles.
type fieldFlags struct {
	values map[string]string
}

func (f *fieldFlags) String() string { return "" }

func (f *fieldFlags) Set(v string) error {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	for i := 0; i < len(v); i++ {
		if v[i] == '=' {
			f.values[v[:i]] = v[i+1:]
			return nil
		}
	}
	return fmt.Errorf("formato esperado k=v: %q", v)
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
