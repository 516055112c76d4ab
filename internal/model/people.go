package model

// Customer is a row of `Clientes`.
type Customer struct {
	ID            int64   `json:"id_cliente"`
	Nombre        string  `json:"nombre"`
	Apellido      *string `json:"apellido"`
	Email         *string `json:"email"`
	Telefono      *string `json:"telefono"`
	FechaRegistro *string `json:"fecha_registro"`
}

// Employee is a row of `Empleados`.
type Employee struct {
	ID                int64   `json:"id_empleado"`
	Nombre            string  `json:"nombre"`
	Apellido          *string `json:"apellido"`
	IDRol             *int64  `json:"id_rol"`
	FechaContratacion *string `json:"fecha_contratacion"`
}

// Role is a staff role such as "Mesero" or "Cocinero".
type Role struct {
	ID        int64  `json:"id_rol"`
	NombreRol string `json:"nombre_rol"`
}
