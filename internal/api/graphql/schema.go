package graphql

import (
	"github.com/graphql-go/graphql"
)

// NewSchema assembles the GraphQL schema around the given resolver set. The
// type shapes mirror the REST payloads: same fields, same redaction.
func NewSchema(r *Resolvers) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.String},
			"email":     &graphql.Field{Type: graphql.String},
			"position":  &graphql.Field{Type: graphql.Int},
			"isActive":  &graphql.Field{Type: graphql.Boolean},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	tokenInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TokenInfo",
		Fields: graphql.Fields{
			"accessToken":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"refreshToken": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"expiresIn":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":    &graphql.Field{Type: graphql.NewNonNull(userType)},
			"tokens":  &graphql.Field{Type: graphql.NewNonNull(tokenInfoType)},
		},
	})

	refreshPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RefreshPayload",
		Fields: graphql.Fields{
			"message":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"accessToken": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"expiresIn":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	permissionInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PermissionInfo",
		Fields: graphql.Fields{
			"userId":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"role":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"permissions": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
		},
	})

	loginInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LoginInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	refreshTokenInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "RefreshTokenInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"refreshToken": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	createUserInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"position": &graphql.InputObjectFieldConfig{Type: graphql.Int, DefaultValue: 4},
			"isActive": &graphql.InputObjectFieldConfig{Type: graphql.Boolean, DefaultValue: true},
		},
	})

	updateUserInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.String},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"position": &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"isActive": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.User,
			},
			"users": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: r.Users,
			},
			"me": &graphql.Field{
				Type:    userType,
				Resolve: r.Me,
			},
			"myPermissions": &graphql.Field{
				Type:    permissionInfoType,
				Resolve: r.MyPermissions,
			},
			"searchUsers": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Args: graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.String},
					"email":    &graphql.ArgumentConfig{Type: graphql.String},
					"position": &graphql.ArgumentConfig{Type: graphql.Int},
					"isActive": &graphql.ArgumentConfig{Type: graphql.Boolean},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
					"offset":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: r.SearchUsers,
			},
			"getUsersWithCriteria": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Args: graphql.FieldConfigArgument{
					"evenIds":     &graphql.ArgumentConfig{Type: graphql.Boolean},
					"minPosition": &graphql.ArgumentConfig{Type: graphql.Int},
					"maxPosition": &graphql.ArgumentConfig{Type: graphql.Int},
					"isActive":    &graphql.ArgumentConfig{Type: graphql.Boolean},
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
					"offset":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: r.UsersWithCriteria,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInputType)},
				},
				Resolve: r.Login,
			},
			"refreshToken": &graphql.Field{
				Type: graphql.NewNonNull(refreshPayloadType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(refreshTokenInputType)},
				},
				Resolve: r.RefreshToken,
			},
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createUserInputType)},
				},
				Resolve: r.CreateUser,
			},
			"updateUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateUserInputType)},
				},
				Resolve: r.UpdateUser,
			},
			"deleteUser": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.DeleteUser,
			},
			"activateUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.ActivateUser,
			},
			"deactivateUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.DeactivateUser,
			},
			"changeUserRole": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"position": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.ChangeUserRole,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
