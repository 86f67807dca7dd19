package routes

// Routes package concentra o roteamento do serviço de normalização
//
// Estrutura:
// - api.go: rotas da API (/v1/*), health e 404
// - routes.go: documentação do pacote
//
// Uso:
// routes.SetupAllRoutes(router, recordsController, adminController)
